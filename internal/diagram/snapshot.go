package diagram

import (
	"fmt"
	"sort"
)

// ElementRecord is the serialized form of an Element.
type ElementRecord struct {
	Type ElementType `json:"type"`
	X    float64     `json:"x"`
	Y    float64     `json:"y"`
	Text string      `json:"text"`
}

// ConnectionRecord is the serialized form of a Connection.
type ConnectionRecord struct {
	StartID    string `json:"startId"`
	StartPoint int    `json:"startPoint"`
	EndID      string `json:"endId"`
	EndPoint   int    `json:"endPoint"`
}

// Snapshot is the plain, JSON-compatible projection of a Diagram keyed by
// the snapshot ids.
type Snapshot struct {
	Elements    map[string]ElementRecord    `json:"elements"`
	Connections map[string]ConnectionRecord `json:"connections"`
}

// LoadReport lists what Load had to leave out.
type LoadReport struct {
	Elements           int
	Connections        int
	SkippedElements    []string
	SkippedConnections []string
}

// Snapshot projects the diagram without transforming any id.
func (d *Diagram) Snapshot() Snapshot {
	s := Snapshot{
		Elements:    make(map[string]ElementRecord, len(d.elements)),
		Connections: make(map[string]ConnectionRecord, len(d.connections)),
	}
	for id, e := range d.elements {
		s.Elements[id] = ElementRecord{Type: e.Type, X: e.Position.X, Y: e.Position.Y, Text: e.Label}
	}
	for id, c := range d.connections {
		s.Connections[id] = ConnectionRecord{StartID: c.StartID, StartPoint: c.StartPoint, EndID: c.EndID, EndPoint: c.EndPoint}
	}
	return s
}

// Load replaces the contents of d with s. Elements keep their snapshot ids
// so connection references resolve. Elements of unknown type and
// connections that fail validation (dangling ids, self loops, bad point
// indices) are skipped rather than aborting the load. Records are applied
// in id order, which also fixes the resulting z-order.
func (d *Diagram) Load(s Snapshot) LoadReport {
	d.Clear()
	var report LoadReport

	for _, id := range sortedKeys(s.Elements) {
		rec := s.Elements[id]
		if id == "" || !rec.Type.Valid() {
			report.SkippedElements = append(report.SkippedElements, id)
			continue
		}
		label := rec.Text
		if label == "" {
			label = rec.Type.DefaultLabel()
		}
		d.insertElement(&Element{ID: id, Type: rec.Type, Position: Point{rec.X, rec.Y}, Label: label})
		report.Elements++
	}

	for _, id := range sortedKeys(s.Connections) {
		rec := s.Connections[id]
		if err := d.validateConnection(rec.StartID, rec.StartPoint, rec.EndID, rec.EndPoint); err != nil {
			report.SkippedConnections = append(report.SkippedConnections, id)
			continue
		}
		if _, taken := d.elements[id]; taken || id == "" {
			id = d.nextID()
		}
		d.insertConnection(&Connection{ID: id, StartID: rec.StartID, StartPoint: rec.StartPoint, EndID: rec.EndID, EndPoint: rec.EndPoint})
		report.Connections++
	}
	return report
}

// FromSnapshot builds a new Diagram from s.
func FromSnapshot(s Snapshot, opts ...Option) (*Diagram, LoadReport) {
	d := New(opts...)
	return d, d.Load(s)
}

func (r LoadReport) String() string {
	return fmt.Sprintf("%d elements, %d connections (%d elements and %d connections skipped)",
		r.Elements, r.Connections, len(r.SkippedElements), len(r.SkippedConnections))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
