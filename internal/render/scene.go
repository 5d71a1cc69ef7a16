// Package render draws a diagram as terminal text, PNG or SVG.
package render

import (
	"errors"
	"image/color"

	"flowedit/internal/diagram"
	"flowedit/internal/editor"
)

var ErrEmpty = errors.New("render: nothing to draw")

// Node is an element ready to draw.
type Node struct {
	diagram.Element
	Shape    diagram.Shape
	Selected bool
}

// Edge is a connection with both endpoints resolved.
type Edge struct {
	ID       string
	From, To diagram.Point
}

// Scene is everything a renderer needs for one frame. Nodes are ordered
// back to front.
type Scene struct {
	Nodes      []Node
	Edges      []Edge
	Guide      *editor.Guide
	ShowPoints bool
}

// NewScene resolves d and the editor view into drawable form.
func NewScene(d *diagram.Diagram, v editor.View) Scene {
	var s Scene
	for _, el := range d.Elements() {
		shape, ok := diagram.ShapeOf(el.Type)
		if !ok {
			continue
		}
		s.Nodes = append(s.Nodes, Node{Element: el, Shape: shape, Selected: el.ID == v.Selected})
	}
	for _, c := range d.Connections() {
		from, to, ok := d.Endpoints(c.ID)
		if !ok {
			continue
		}
		s.Edges = append(s.Edges, Edge{ID: c.ID, From: from, To: to})
	}
	s.Guide = v.Guide
	s.ShowPoints = v.Tool == editor.ToolConnector
	return s
}

// Bounds returns the box enclosing every node outline and edge.
func (s Scene) Bounds() (lo, hi diagram.Point, ok bool) {
	grow := func(p diagram.Point) {
		if !ok {
			lo, hi, ok = p, p, true
			return
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	for _, n := range s.Nodes {
		half := diagram.Point{X: n.Shape.HalfWidth, Y: n.Shape.HalfHeight}
		grow(n.Position.Sub(half))
		grow(n.Position.Add(half))
	}
	for _, e := range s.Edges {
		grow(e.From)
		grow(e.To)
	}
	return lo, hi, ok
}

// Palette holds the fill and stroke of an element type.
type Palette struct {
	Fill, Stroke color.RGBA
}

var palettes = map[diagram.ElementType]Palette{
	diagram.Start:    {Fill: hex(0xe8f5e8), Stroke: hex(0x4caf50)},
	diagram.Process:  {Fill: hex(0xe3f2fd), Stroke: hex(0x2196f3)},
	diagram.Decision: {Fill: hex(0xfff3e0), Stroke: hex(0xff9800)},
}

var (
	lineColor     = hex(0x333333)
	guideColor    = hex(0x2196f3)
	textColor     = hex(0x333333)
	selectedColor = hex(0xff5722)
)

// PaletteOf returns the colours used for t.
func PaletteOf(t diagram.ElementType) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return Palette{Fill: hex(0xffffff), Stroke: lineColor}
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
