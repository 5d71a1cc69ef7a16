package diagram

import (
	"fmt"
	"slices"
	"strings"

	"flowedit/internal/ids"
)

// Diagram owns the live elements and connections. It is not safe for
// concurrent use; all mutation happens on the editor's event loop.
type Diagram struct {
	elements    map[string]*Element
	connections map[string]*Connection
	order       []string // element ids, back to front
	connOrder   []string // connection ids in creation order
	newID       ids.Generator
}

// Option configures a Diagram.
type Option func(*Diagram)

// WithIDGenerator replaces the random identifier source.
func WithIDGenerator(g ids.Generator) Option {
	return func(d *Diagram) { d.newID = g }
}

// New returns an empty diagram.
func New(opts ...Option) *Diagram {
	d := &Diagram{
		elements:    make(map[string]*Element),
		connections: make(map[string]*Connection),
		newID:       ids.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// nextID draws identifiers until one is unused by any element or connection.
func (d *Diagram) nextID() string {
	for {
		id := d.newID()
		if _, used := d.elements[id]; used {
			continue
		}
		if _, used := d.connections[id]; used {
			continue
		}
		return id
	}
}

// CreateElement places a new element of type t at (x, y) with the default
// label and brings it to the front.
func (d *Diagram) CreateElement(t ElementType, x, y float64) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	id := d.nextID()
	d.insertElement(&Element{ID: id, Type: t, Position: Point{x, y}, Label: t.DefaultLabel()})
	return id, nil
}

func (d *Diagram) insertElement(e *Element) {
	d.elements[e.ID] = e
	d.order = append(d.order, e.ID)
}

// MoveElement sets the origin of element id and brings it to the front.
// Connection endpoints are resolved on demand, so they follow immediately.
func (d *Diagram) MoveElement(id string, x, y float64) error {
	e, ok := d.elements[id]
	if !ok {
		return fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	e.Position = Point{x, y}
	d.bringToFront(id)
	return nil
}

func (d *Diagram) bringToFront(id string) {
	i := slices.Index(d.order, id)
	if i < 0 || i == len(d.order)-1 {
		return
	}
	d.order = append(slices.Delete(d.order, i, i+1), id)
}

// SetLabel replaces the label of element id with the trimmed text.
// Blank text is refused and leaves the label unchanged.
func (d *Diagram) SetLabel(id, text string) error {
	e, ok := d.elements[id]
	if !ok {
		return fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyLabel
	}
	e.Label = text
	return nil
}

func (d *Diagram) validateConnection(startID string, startPoint int, endID string, endPoint int) error {
	if startID == endID {
		return fmt.Errorf("%w: self loop on %s", ErrInvalidConnection, startID)
	}
	if _, ok := d.elements[startID]; !ok {
		return fmt.Errorf("%w: missing start element %s", ErrInvalidConnection, startID)
	}
	if _, ok := d.elements[endID]; !ok {
		return fmt.Errorf("%w: missing end element %s", ErrInvalidConnection, endID)
	}
	if !ValidPoint(startPoint) || !ValidPoint(endPoint) {
		return fmt.Errorf("%w: point index out of range (%d, %d)", ErrInvalidConnection, startPoint, endPoint)
	}
	return nil
}

// CreateConnection links startPoint of startID to endPoint of endID.
// Nothing is inserted unless every precondition holds.
func (d *Diagram) CreateConnection(startID string, startPoint int, endID string, endPoint int) (string, error) {
	if err := d.validateConnection(startID, startPoint, endID, endPoint); err != nil {
		return "", err
	}
	id := d.nextID()
	d.insertConnection(&Connection{ID: id, StartID: startID, StartPoint: startPoint, EndID: endID, EndPoint: endPoint})
	return id, nil
}

func (d *Diagram) insertConnection(c *Connection) {
	d.connections[c.ID] = c
	d.connOrder = append(d.connOrder, c.ID)
}

// DeleteElement removes element id together with every connection that
// references it and returns the ids of the removed connections.
// Unknown ids are ignored.
func (d *Diagram) DeleteElement(id string) []string {
	if _, ok := d.elements[id]; !ok {
		return nil
	}
	var removed []string
	for _, cid := range d.connOrder {
		if d.connections[cid].Touches(id) {
			removed = append(removed, cid)
		}
	}
	for _, cid := range removed {
		d.DeleteConnection(cid)
	}
	delete(d.elements, id)
	d.order = slices.DeleteFunc(d.order, func(s string) bool { return s == id })
	return removed
}

// DeleteConnection removes connection id. Unknown ids are ignored.
func (d *Diagram) DeleteConnection(id string) {
	if _, ok := d.connections[id]; !ok {
		return
	}
	delete(d.connections, id)
	d.connOrder = slices.DeleteFunc(d.connOrder, func(s string) bool { return s == id })
}

// Clear removes every element and connection.
func (d *Diagram) Clear() {
	clear(d.elements)
	clear(d.connections)
	d.order = d.order[:0]
	d.connOrder = d.connOrder[:0]
}

// Element returns a copy of element id.
func (d *Diagram) Element(id string) (Element, bool) {
	e, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}
	return *e, true
}

// Connection returns a copy of connection id.
func (d *Diagram) Connection(id string) (Connection, bool) {
	c, ok := d.connections[id]
	if !ok {
		return Connection{}, false
	}
	return *c, true
}

// Elements returns copies of all elements, back to front.
func (d *Diagram) Elements() []Element {
	out := make([]Element, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.elements[id])
	}
	return out
}

// Connections returns copies of all connections in creation order.
func (d *Diagram) Connections() []Connection {
	out := make([]Connection, 0, len(d.connOrder))
	for _, id := range d.connOrder {
		out = append(out, *d.connections[id])
	}
	return out
}

// ConnectionsOf returns the connections that reference element id.
func (d *Diagram) ConnectionsOf(id string) []Connection {
	var out []Connection
	for _, cid := range d.connOrder {
		if c := d.connections[cid]; c.Touches(id) {
			out = append(out, *c)
		}
	}
	return out
}

func (d *Diagram) NumElements() int    { return len(d.elements) }
func (d *Diagram) NumConnections() int { return len(d.connections) }

// Endpoints resolves the absolute start and end of connection id from the
// current positions of the elements it references.
func (d *Diagram) Endpoints(id string) (from, to Point, ok bool) {
	c, found := d.connections[id]
	if !found {
		return Point{}, Point{}, false
	}
	start, okStart := d.elements[c.StartID]
	end, okEnd := d.elements[c.EndID]
	if !okStart || !okEnd {
		return Point{}, Point{}, false
	}
	from, okFrom := AbsolutePoint(*start, c.StartPoint)
	to, okTo := AbsolutePoint(*end, c.EndPoint)
	return from, to, okFrom && okTo
}

// ElementAt returns the front-most element whose outline contains p.
func (d *Diagram) ElementAt(p Point) (string, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		if e := d.elements[d.order[i]]; Contains(*e, p) {
			return e.ID, true
		}
	}
	return "", false
}

// ConnectionPointAt returns the front-most connection point lying within
// tol of p on both axes.
func (d *Diagram) ConnectionPointAt(p Point, tol Point) (id string, idx int, ok bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		e := d.elements[d.order[i]]
		for n := 0; n < NumConnectionPoints; n++ {
			at, _ := AbsolutePoint(*e, n)
			if abs(at.X-p.X) <= tol.X && abs(at.Y-p.Y) <= tol.Y {
				return e.ID, n, true
			}
		}
	}
	return "", 0, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
