package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"flowedit/internal/diagram"
	"flowedit/internal/editor"
)

const arrowMarker = "arrowhead"

// SVG writes the scene as a standalone SVG document. Elements are drawn as
// groups translated to their position, as in the browser editor.
func SVG(w io.Writer, s Scene) error {
	lo, hi, ok := s.Bounds()
	if !ok {
		return ErrEmpty
	}
	ox, oy := round(lo.X-Padding), round(lo.Y-Padding)
	width := int(math.Ceil(hi.X - lo.X + 2*Padding))
	height := int(math.Ceil(hi.Y - lo.Y + 2*Padding))

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Def()
	canvas.Marker(arrowMarker, 10, 4, 10, 7, `orient="auto"`)
	canvas.Polygon([]int{0, 10, 0}, []int{0, 4, 7}, "fill:"+css(lineColor))
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	canvas.Translate(-ox, -oy)
	for _, e := range s.Edges {
		canvas.Line(round(e.From.X), round(e.From.Y), round(e.To.X), round(e.To.Y),
			fmt.Sprintf(`marker-end="url(#%s)"`, arrowMarker),
			fmt.Sprintf("stroke:%s;stroke-width:2", css(lineColor)))
	}
	for _, n := range s.Nodes {
		drawNodeSVG(canvas, n)
	}
	if s.Guide != nil {
		canvas.Line(round(s.Guide.From.X), round(s.Guide.From.Y), round(s.Guide.To.X), round(s.Guide.To.Y),
			fmt.Sprintf("stroke:%s;stroke-width:3;stroke-dasharray:5,5", css(guideColor)))
	}
	canvas.Gend()
	canvas.End()
	return nil
}

func drawNodeSVG(canvas *svg.SVG, n Node) {
	p := PaletteOf(n.Type)
	stroke := p.Stroke
	if n.Selected {
		stroke = selectedColor
	}
	style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", css(p.Fill), css(stroke))
	hw, hh := round(n.Shape.HalfWidth), round(n.Shape.HalfHeight)

	canvas.Group(fmt.Sprintf(`id="%s"`, n.ID), fmt.Sprintf(`transform="translate(%d,%d)"`, round(n.Position.X), round(n.Position.Y)))
	switch n.Type {
	case diagram.Start:
		canvas.Ellipse(0, 0, hw, hh, style)
	case diagram.Process:
		canvas.Roundrect(-hw, -hh, 2*hw, 2*hh, 5, 5, style)
	default:
		xs := make([]int, 0, len(n.Shape.Offsets))
		ys := make([]int, 0, len(n.Shape.Offsets))
		for _, off := range n.Shape.Offsets {
			xs = append(xs, round(off.X))
			ys = append(ys, round(off.Y))
		}
		canvas.Polygon(xs, ys, style)
	}
	canvas.Text(0, 0, n.Label,
		fmt.Sprintf("fill:%s;font-size:14px;font-family:sans-serif;text-anchor:middle;dominant-baseline:middle", css(textColor)))
	canvas.Gend()
}

// ExportSVGFile renders d, without any editor state, to path.
func ExportSVGFile(path string, d *diagram.Diagram) (err error) {
	s := NewScene(d, editor.View{})
	if len(s.Nodes) == 0 && len(s.Edges) == 0 {
		return ErrEmpty
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return SVG(f, s)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func round(v float64) int {
	return int(math.Round(v))
}
