package editor

import (
	"log/slog"

	"flowedit/internal/diagram"
)

// DefaultTolerance is how far from a connection point a pointer may land
// and still hit it, matching the radius of the drawn anchor.
var DefaultTolerance = diagram.Point{X: 6, Y: 6}

// Editor interprets input against the current tool, selection and gesture.
// It is driven from a single event loop and is not safe for concurrent use.
type Editor struct {
	d         *diagram.Diagram
	logger    *slog.Logger
	tolerance diagram.Point

	tool     Tool
	phase    Phase
	selected string

	dragID     string
	dragOffset diagram.Point

	connFrom  string
	connPoint int
	guideEnd  diagram.Point

	pending *LabelRequest
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for refused operations.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithTolerance sets the connection point hit tolerance per axis.
func WithTolerance(tol diagram.Point) Option {
	return func(e *Editor) { e.tolerance = tol }
}

// New returns an idle editor operating on d.
func New(d *diagram.Diagram, opts ...Option) *Editor {
	e := &Editor{
		d:         d,
		logger:    slog.New(slog.DiscardHandler),
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Diagram returns the model the editor mutates.
func (e *Editor) Diagram() *diagram.Diagram { return e.d }

// View returns the current state for rendering.
func (e *Editor) View() View {
	v := View{Phase: e.phase, Tool: e.tool, Selected: e.selected, Pending: e.pending != nil}
	if e.phase == Connecting {
		if el, ok := e.d.Element(e.connFrom); ok {
			from, _ := diagram.AbsolutePoint(el, e.connPoint)
			v.Guide = &Guide{From: from, To: e.guideEnd}
		}
	}
	return v
}

// Busy reports whether a drag or connection gesture is in progress.
func (e *Editor) Busy() bool {
	return e.phase == Dragging || e.phase == Connecting
}

// restPhase is the phase the editor returns to once a gesture resolves.
func (e *Editor) restPhase() Phase {
	if e.tool == ToolNone {
		return Idle
	}
	return ToolSelected
}

// SelectTool activates t and clears the selection. Tool switches are
// ignored while a gesture is in progress or a prompt is pending.
func (e *Editor) SelectTool(t Tool) bool {
	if e.Busy() || e.pending != nil {
		e.logger.Debug("tool switch ignored", slog.String("tool", t.String()), slog.String("phase", e.phase.String()))
		return false
	}
	e.tool = t
	e.selected = ""
	e.phase = e.restPhase()
	return true
}

// PointerDown starts a gesture or places an element at p.
func (e *Editor) PointerDown(p diagram.Point) {
	if e.pending != nil || e.Busy() {
		return
	}

	if e.tool == ToolConnector {
		if id, idx, ok := e.d.ConnectionPointAt(p, e.tolerance); ok {
			e.phase = Connecting
			e.connFrom, e.connPoint = id, idx
			e.guideEnd = p
		}
		return
	}

	id, onElement := e.d.ElementAt(p)
	if !onElement {
		// Anchors stick out of some outlines; grabbing one still drags its element.
		id, _, onElement = e.d.ConnectionPointAt(p, e.tolerance)
	}
	if onElement {
		el, _ := e.d.Element(id)
		e.phase = Dragging
		e.dragID = id
		e.dragOffset = p.Sub(el.Position)
		e.selected = id
		return
	}

	if t, ok := e.tool.ElementType(); ok {
		newID, err := e.d.CreateElement(t, p.X, p.Y)
		if err != nil {
			e.logger.Debug("create element refused", slog.Any("error", err))
			return
		}
		e.selected = newID
		e.phase = ToolSelected
		return
	}
	e.selected = ""
}

// PointerMove drags the grabbed element or stretches the guide line.
func (e *Editor) PointerMove(p diagram.Point) {
	switch e.phase {
	case Dragging:
		pos := p.Sub(e.dragOffset)
		if err := e.d.MoveElement(e.dragID, pos.X, pos.Y); err != nil {
			e.endGesture()
		}
	case Connecting:
		e.guideEnd = p
	}
}

// PointerUp resolves the current gesture. Releasing a connection gesture
// over an anchor of another element creates the connection; anywhere else
// it is discarded.
func (e *Editor) PointerUp(p diagram.Point) {
	switch e.phase {
	case Dragging:
		e.endGesture()
	case Connecting:
		if id, idx, ok := e.d.ConnectionPointAt(p, e.tolerance); ok && id != e.connFrom {
			if _, err := e.d.CreateConnection(e.connFrom, e.connPoint, id, idx); err != nil {
				e.logger.Debug("create connection refused", slog.Any("error", err))
			}
		}
		e.endGesture()
	}
}

func (e *Editor) endGesture() {
	e.dragID = ""
	e.dragOffset = diagram.Point{}
	e.connFrom = ""
	e.connPoint = 0
	e.guideEnd = diagram.Point{}
	e.phase = e.restPhase()
}

// DoubleClick on an element body opens a label prompt unless the connector
// tool is active. The editor accepts no other input until ResolveLabel.
func (e *Editor) DoubleClick(p diagram.Point) (LabelRequest, bool) {
	if e.pending != nil || e.Busy() || e.tool == ToolConnector {
		return LabelRequest{}, false
	}
	id, ok := e.d.ElementAt(p)
	if !ok {
		return LabelRequest{}, false
	}
	el, _ := e.d.Element(id)
	e.selected = id
	e.pending = &LabelRequest{ElementID: id, Current: el.Label}
	return *e.pending, true
}

// Pending returns the outstanding label request, if any.
func (e *Editor) Pending() (LabelRequest, bool) {
	if e.pending == nil {
		return LabelRequest{}, false
	}
	return *e.pending, true
}

// ResolveLabel completes the pending prompt. A confirmed, non-blank text
// becomes the new label; it reports whether the label changed.
func (e *Editor) ResolveLabel(text string, confirmed bool) bool {
	req := e.pending
	e.pending = nil
	if req == nil || !confirmed {
		return false
	}
	if err := e.d.SetLabel(req.ElementID, text); err != nil {
		e.logger.Debug("label refused", slog.String("element", req.ElementID), slog.Any("error", err))
		return false
	}
	return true
}

// DeleteSelected removes the selected element and its connections.
func (e *Editor) DeleteSelected() bool {
	if e.pending != nil || e.selected == "" {
		return false
	}
	id := e.selected
	removed := e.d.DeleteElement(id)
	e.logger.Debug("element deleted", slog.String("element", id), slog.Int("connections", len(removed)))
	e.selected = ""
	if e.dragID == id || e.connFrom == id {
		e.endGesture()
	}
	return true
}

// Escape clears the selection and the tool and abandons any gesture.
func (e *Editor) Escape() {
	if e.pending != nil {
		return
	}
	e.selected = ""
	e.tool = ToolNone
	e.endGesture()
}

// Reset returns the editor to Idle with nothing selected, as after the
// diagram has been cleared or replaced.
func (e *Editor) Reset() {
	e.pending = nil
	e.selected = ""
	e.tool = ToolNone
	e.endGesture()
}
