package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/internal/diagram"
	"flowedit/internal/ids"
)

func pt(x, y float64) diagram.Point { return diagram.Point{X: x, Y: y} }

func newTestEditor() (*Editor, *diagram.Diagram) {
	d := diagram.New(diagram.WithIDGenerator(ids.Sequence("e")))
	return New(d), d
}

func TestCreateWithTool(t *testing.T) {
	e, d := newTestEditor()
	require.True(t, e.SelectTool(ToolStart))
	assert.Equal(t, ToolSelected, e.View().Phase)

	e.PointerDown(pt(100, 100))
	e.PointerUp(pt(100, 100))
	require.Equal(t, 1, d.NumElements())
	first := e.View().Selected
	assert.NotEmpty(t, first)

	// The tool persists across creations.
	e.PointerDown(pt(400, 100))
	assert.Equal(t, 2, d.NumElements())
	assert.NotEqual(t, first, e.View().Selected)
	assert.Equal(t, ToolStart, e.View().Tool)
	assert.Equal(t, ToolSelected, e.View().Phase)
}

func TestPointerDownOnEmptyCanvasWithoutTool(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Process, 0, 0)

	e.PointerDown(pt(10, 10))
	e.PointerUp(pt(10, 10))
	assert.Equal(t, id, e.View().Selected)

	e.PointerDown(pt(500, 500))
	assert.Empty(t, e.View().Selected)
	assert.Equal(t, 1, d.NumElements())
	assert.Equal(t, Idle, e.View().Phase)
}

func TestDragMovesElementByOffset(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Process, 100, 100)

	e.PointerDown(pt(110, 105))
	v := e.View()
	assert.Equal(t, Dragging, v.Phase)
	assert.Equal(t, id, v.Selected)

	e.PointerMove(pt(210, 155))
	el, _ := d.Element(id)
	assert.Equal(t, pt(200, 150), el.Position)

	e.PointerUp(pt(210, 155))
	assert.Equal(t, Idle, e.View().Phase)

	e.PointerMove(pt(999, 999))
	el, _ = d.Element(id)
	assert.Equal(t, pt(200, 150), el.Position, "moves after release are ignored")
}

func TestDragReturnsToToolSelected(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Process, 100, 100)
	e.SelectTool(ToolDecision)

	e.PointerDown(pt(100, 100))
	e.PointerMove(pt(120, 100))
	e.PointerUp(pt(120, 100))

	assert.Equal(t, 1, d.NumElements(), "pressing on an element drags instead of creating")
	el, _ := d.Element(id)
	assert.Equal(t, pt(120, 100), el.Position)
	assert.Equal(t, ToolSelected, e.View().Phase)
}

func TestConnectGesture(t *testing.T) {
	e, d := newTestEditor()
	start, _ := d.CreateElement(diagram.Start, 100, 100)
	process, _ := d.CreateElement(diagram.Process, 300, 100)
	e.SelectTool(ToolConnector)

	e.PointerDown(pt(160, 100))
	v := e.View()
	require.Equal(t, Connecting, v.Phase)
	require.NotNil(t, v.Guide)
	assert.Equal(t, pt(160, 100), v.Guide.From)

	e.PointerMove(pt(200, 120))
	assert.Equal(t, pt(200, 120), e.View().Guide.To)
	assert.Zero(t, d.NumConnections(), "guide line does not touch the model")

	e.PointerUp(pt(226, 101))
	require.Equal(t, 1, d.NumConnections())
	c := d.Connections()[0]
	assert.Equal(t, start, c.StartID)
	assert.Equal(t, 1, c.StartPoint)
	assert.Equal(t, process, c.EndID)
	assert.Equal(t, 3, c.EndPoint)

	from, to, ok := d.Endpoints(c.ID)
	require.True(t, ok)
	assert.Equal(t, pt(160, 100), from)
	assert.Equal(t, pt(225, 100), to)

	v = e.View()
	assert.Equal(t, ToolSelected, v.Phase)
	assert.Nil(t, v.Guide)
}

func TestConnectGestureCancelled(t *testing.T) {
	e, d := newTestEditor()
	a, _ := d.CreateElement(diagram.Start, 100, 100)
	_, _ = d.CreateElement(diagram.Process, 300, 100)
	e.SelectTool(ToolConnector)

	// Released on empty canvas.
	e.PointerDown(pt(160, 100))
	e.PointerUp(pt(600, 600))
	assert.Zero(t, d.NumConnections())
	assert.Equal(t, ToolSelected, e.View().Phase)

	// Released on another anchor of the same element.
	e.PointerDown(pt(160, 100))
	e.PointerUp(pt(100, 130))
	assert.Zero(t, d.NumConnections())

	// Cancelled by Escape.
	e.PointerDown(pt(160, 100))
	e.Escape()
	e.PointerUp(pt(225, 100))
	assert.Zero(t, d.NumConnections())
	assert.Equal(t, Idle, e.View().Phase)

	_, ok := d.Element(a)
	assert.True(t, ok)
}

func TestConnectorIgnoresBodies(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Process, 100, 100)
	e.SelectTool(ToolConnector)

	e.PointerDown(pt(100, 100))
	assert.Equal(t, ToolSelected, e.View().Phase)
	e.PointerMove(pt(300, 300))
	el, _ := d.Element(id)
	assert.Equal(t, pt(100, 100), el.Position)

	e.PointerDown(pt(600, 600))
	assert.Equal(t, 1, d.NumElements(), "connector never creates elements")
}

func TestToolSwitchIgnoredMidGesture(t *testing.T) {
	e, d := newTestEditor()
	_, _ = d.CreateElement(diagram.Process, 100, 100)

	e.PointerDown(pt(100, 100))
	assert.False(t, e.SelectTool(ToolStart))
	assert.Equal(t, ToolNone, e.View().Tool)
	e.PointerUp(pt(100, 100))

	assert.True(t, e.SelectTool(ToolStart))
	assert.Equal(t, ToolStart, e.View().Tool)
	assert.Empty(t, e.View().Selected, "selecting a tool clears the selection")
}

func TestDoubleClickEditsLabel(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Decision, 100, 100)

	req, ok := e.DoubleClick(pt(100, 100))
	require.True(t, ok)
	assert.Equal(t, id, req.ElementID)
	assert.Equal(t, "¿Decisión?", req.Current)

	// Input is held back while the prompt is pending.
	e.PointerDown(pt(100, 100))
	assert.NotEqual(t, Dragging, e.View().Phase)
	assert.False(t, e.SelectTool(ToolStart))
	assert.True(t, e.View().Pending)

	assert.True(t, e.ResolveLabel("  ¿Es válido?  ", true))
	el, _ := d.Element(id)
	assert.Equal(t, "¿Es válido?", el.Label)
	assert.False(t, e.View().Pending)
}

func TestDoubleClickRejectsBlankAndCancel(t *testing.T) {
	e, d := newTestEditor()
	id, _ := d.CreateElement(diagram.Process, 100, 100)

	_, ok := e.DoubleClick(pt(100, 100))
	require.True(t, ok)
	assert.False(t, e.ResolveLabel("   ", true))

	_, ok = e.DoubleClick(pt(100, 100))
	require.True(t, ok)
	assert.False(t, e.ResolveLabel("Nuevo", false))

	el, _ := d.Element(id)
	assert.Equal(t, "Proceso", el.Label)
	assert.False(t, e.ResolveLabel("stray", true), "no pending request")
}

func TestDoubleClickWithConnector(t *testing.T) {
	e, d := newTestEditor()
	_, _ = d.CreateElement(diagram.Process, 100, 100)
	e.SelectTool(ToolConnector)

	_, ok := e.DoubleClick(pt(100, 100))
	assert.False(t, ok)
	_, ok = e.Pending()
	assert.False(t, ok)
}

func TestDeleteSelected(t *testing.T) {
	e, d := newTestEditor()
	a, _ := d.CreateElement(diagram.Start, 100, 100)
	b, _ := d.CreateElement(diagram.Process, 300, 100)
	_, err := d.CreateConnection(a, 1, b, 3)
	require.NoError(t, err)

	assert.False(t, e.DeleteSelected(), "nothing selected")

	e.PointerDown(pt(100, 100))
	e.PointerUp(pt(100, 100))
	require.True(t, e.DeleteSelected())

	assert.Empty(t, e.View().Selected)
	assert.Zero(t, d.NumConnections())
	_, ok := d.Element(b)
	assert.True(t, ok)
}

func TestDeleteDuringDragEndsGesture(t *testing.T) {
	e, d := newTestEditor()
	_, _ = d.CreateElement(diagram.Process, 100, 100)

	e.PointerDown(pt(100, 100))
	require.True(t, e.DeleteSelected())
	assert.NotEqual(t, Dragging, e.View().Phase)

	assert.NotPanics(t, func() { e.PointerMove(pt(200, 200)) })
	assert.Zero(t, d.NumElements())
}

func TestEscapeClearsEverything(t *testing.T) {
	e, d := newTestEditor()
	_, _ = d.CreateElement(diagram.Process, 100, 100)
	e.SelectTool(ToolProcess)
	e.PointerDown(pt(100, 100))
	e.PointerUp(pt(100, 100))

	e.Escape()
	v := e.View()
	assert.Equal(t, Idle, v.Phase)
	assert.Equal(t, ToolNone, v.Tool)
	assert.Empty(t, v.Selected)
}

func TestResetAfterClear(t *testing.T) {
	e, d := newTestEditor()
	_, _ = d.CreateElement(diagram.Process, 100, 100)
	e.SelectTool(ToolConnector)
	e.PointerDown(pt(175, 100))
	require.Equal(t, Connecting, e.View().Phase)

	d.Clear()
	e.Reset()
	v := e.View()
	assert.Equal(t, Idle, v.Phase)
	assert.Nil(t, v.Guide)
	assert.Empty(t, v.Selected)
}

func TestToleranceOption(t *testing.T) {
	d := diagram.New()
	_, _ = d.CreateElement(diagram.Start, 100, 100)
	e := New(d, WithTolerance(diagram.Point{X: 1, Y: 1}))
	e.SelectTool(ToolConnector)

	e.PointerDown(pt(163, 100))
	assert.Equal(t, ToolSelected, e.View().Phase, "outside the tighter tolerance")

	e.PointerDown(pt(160.5, 100))
	assert.Equal(t, Connecting, e.View().Phase)
}
