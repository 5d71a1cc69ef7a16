package render

import (
	"math"

	"flowedit/internal/diagram"
)

// Viewport maps world coordinates onto a grid of terminal cells. Pan is
// counted in cells.
type Viewport struct {
	Width, Height         int
	CellWidth, CellHeight float64
	PanX, PanY            int
}

// farCell bounds cell coordinates so points far off screen stay
// representable as ints.
const farCell = 1 << 30

// Cell returns the grid cell holding world point p. Coordinates beyond
// farCell cells are clamped.
func (vp Viewport) Cell(p diagram.Point) (col, row int) {
	x, y := vp.cellf(p)
	return clampCell(x), clampCell(y)
}

// cellf is Cell without flooring.
func (vp Viewport) cellf(p diagram.Point) (x, y float64) {
	return p.X/vp.CellWidth - float64(vp.PanX), p.Y/vp.CellHeight - float64(vp.PanY)
}

func clampCell(v float64) int {
	v = math.Floor(v)
	switch {
	case math.IsNaN(v), v < -farCell:
		return -farCell
	case v > farCell:
		return farCell
	}
	return int(v)
}

// World returns the world point at the centre of a grid cell.
func (vp Viewport) World(col, row int) diagram.Point {
	return diagram.Point{
		X: (float64(col+vp.PanX) + 0.5) * vp.CellWidth,
		Y: (float64(row+vp.PanY) + 0.5) * vp.CellHeight,
	}
}

type grid [][]rune

func newGrid(w, h int) grid {
	g := make(grid, h)
	for i := range g {
		g[i] = make([]rune, w)
		for j := range g[i] {
			g[i][j] = ' '
		}
	}
	return g
}

func (g grid) set(col, row int, r rune) {
	if row >= 0 && row < len(g) && col >= 0 && col < len(g[row]) {
		g[row][col] = r
	}
}

func (g grid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// Terminal draws s into vp.Height lines of vp.Width cells. Connections are
// drawn behind elements, arrowheads and the guide line in front.
func Terminal(s Scene, vp Viewport) []string {
	if vp.Width < 1 {
		vp.Width = 1
	}
	if vp.Height < 1 {
		vp.Height = 1
	}
	g := newGrid(vp.Width, vp.Height)

	for _, e := range s.Edges {
		drawLine(g, vp, e.From, e.To, 0)
	}
	for _, n := range s.Nodes {
		drawNode(g, vp, n)
	}
	if s.ShowPoints {
		for _, n := range s.Nodes {
			for i := range n.Shape.Offsets {
				col, row := vp.Cell(n.Position.Add(n.Shape.Offsets[i]))
				g.set(col, row, 'o')
			}
		}
	}
	for _, e := range s.Edges {
		drawArrowhead(g, vp, e.From, e.To)
	}
	if s.Guide != nil {
		drawLine(g, vp, s.Guide.From, s.Guide.To, '.')
	}
	return g.lines()
}

func drawNode(g grid, vp Viewport, n Node) {
	c0, r0 := vp.Cell(n.Position.Sub(diagram.Point{X: n.Shape.HalfWidth, Y: n.Shape.HalfHeight}))
	c1, r1 := vp.Cell(n.Position.Add(diagram.Point{X: n.Shape.HalfWidth, Y: n.Shape.HalfHeight}))
	if c1 < 0 || r1 < 0 || c0 >= len(g[0]) || r0 >= len(g) {
		return
	}
	inside := func(col, row int) bool {
		return diagram.Contains(n.Element, vp.World(col, row))
	}

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !inside(col, row) {
				continue
			}
			up, down := inside(col, row-1), inside(col, row+1)
			left, right := inside(col-1, row), inside(col+1, row)
			g.set(col, row, borderRune(n, up, down, left, right))
		}
	}

	// Label on the row through the origin, clipped to the interior.
	col, row := vp.Cell(n.Position)
	lo, hi := col, col
	for inside(lo-1, row) {
		lo--
	}
	for inside(hi+1, row) {
		hi++
	}
	lo, hi = lo+1, hi-1
	text := []rune(n.Label)
	if width := hi - lo + 1; len(text) > width {
		if width < 1 {
			return
		}
		text = text[:width]
	}
	start := lo + (hi-lo+1-len(text))/2
	for i, r := range text {
		g.set(start+i, row, r)
	}
}

func borderRune(n Node, up, down, left, right bool) rune {
	if up && down && left && right {
		return ' '
	}
	if n.Selected {
		return '#'
	}
	switch {
	case !up && !left, !down && !right:
		if n.Type == diagram.Process {
			return '+'
		}
		return '/'
	case !up && !right, !down && !left:
		if n.Type == diagram.Process {
			return '+'
		}
		return '\\'
	case !up || !down:
		return '-'
	default:
		return '|'
	}
}

// drawLine walks the cells between two points with Bresenham's algorithm,
// after clipping the segment to one cell beyond the grid. A zero rune picks
// a glyph from the line's slope.
func drawLine(g grid, vp Viewport, from, to diagram.Point, r rune) {
	fx0, fy0 := vp.cellf(from)
	fx1, fy1 := vp.cellf(to)
	if r == 0 {
		r = slopeRune(fx1-fx0, fy1-fy0)
	}
	fx0, fy0, fx1, fy1, ok := clipSegment(fx0, fy0, fx1, fy1, -1, -1, float64(len(g[0])+1), float64(len(g)+1))
	if !ok {
		return
	}
	x0, y0 := int(math.Floor(fx0)), int(math.Floor(fy0))
	x1, y1 := int(math.Floor(fx1)), int(math.Floor(fy1))

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		g.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

const (
	outLeft = 1 << iota
	outRight
	outBelow
	outAbove
)

func outcode(x, y, xmin, ymin, xmax, ymax float64) int {
	code := 0
	switch {
	case x < xmin:
		code |= outLeft
	case x > xmax:
		code |= outRight
	}
	switch {
	case y < ymin:
		code |= outBelow
	case y > ymax:
		code |= outAbove
	}
	return code
}

// clipSegment clips a segment to a rectangle (Cohen-Sutherland). ok is false
// when nothing of the segment is inside or a coordinate is not finite.
func clipSegment(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	for _, v := range []float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	c0 := outcode(x0, y0, xmin, ymin, xmax, ymax)
	c1 := outcode(x1, y1, xmin, ymin, xmax, ymax)
	for {
		if c0|c1 == 0 {
			break
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}
		c := c0
		if c == 0 {
			c = c1
		}
		var x, y float64
		switch {
		case c&outAbove != 0:
			x, y = x0+(x1-x0)*(ymax-y0)/(y1-y0), ymax
		case c&outBelow != 0:
			x, y = x0+(x1-x0)*(ymin-y0)/(y1-y0), ymin
		case c&outRight != 0:
			x, y = xmax, y0+(y1-y0)*(xmax-x0)/(x1-x0)
		default:
			x, y = xmin, y0+(y1-y0)*(xmin-x0)/(x1-x0)
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			return 0, 0, 0, 0, false
		}
		if c == c0 {
			x0, y0 = x, y
			c0 = outcode(x0, y0, xmin, ymin, xmax, ymax)
		} else {
			x1, y1 = x, y
			c1 = outcode(x1, y1, xmin, ymin, xmax, ymax)
		}
	}
	clamp := func(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }
	return clamp(x0, xmin, xmax), clamp(y0, ymin, ymax), clamp(x1, xmin, xmax), clamp(y1, ymin, ymax), true
}

func slopeRune(dx, dy float64) rune {
	// Cells are about twice as tall as wide.
	dx, dy = math.Round(dx), math.Round(dy)
	switch {
	case dy == 0 || math.Abs(dx) > 4*math.Abs(dy):
		return '-'
	case dx == 0 || math.Abs(dy)*2 > 4*math.Abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func drawArrowhead(g grid, vp Viewport, from, to diagram.Point) {
	col, row := vp.Cell(to)
	dx, dy := to.X-from.X, to.Y-from.Y
	var r rune
	switch {
	case math.Abs(dx) >= math.Abs(dy) && dx >= 0:
		r = '>'
	case math.Abs(dx) >= math.Abs(dy):
		r = '<'
	case dy > 0:
		r = 'v'
	default:
		r = '^'
	}
	g.set(col, row, r)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
