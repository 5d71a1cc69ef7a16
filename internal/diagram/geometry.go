package diagram

import "math"

// NumConnectionPoints is the number of anchors every shape exposes,
// ordered top, right, bottom, left.
const NumConnectionPoints = 4

// Shape describes the outline and anchors of an element type.
type Shape struct {
	HalfWidth  float64
	HalfHeight float64
	Offsets    [NumConnectionPoints]Point
	Label      string
	outline    func(s Shape, dy float64) float64
}

// HalfWidthAt returns the horizontal half extent of the outline at vertical
// offset dy from the origin. ok is false outside the shape.
func (s Shape) HalfWidthAt(dy float64) (w float64, ok bool) {
	if math.Abs(dy) > s.HalfHeight {
		return 0, false
	}
	return s.outline(s, dy), true
}

func anchors(hw, hh float64) [NumConnectionPoints]Point {
	return [NumConnectionPoints]Point{{0, -hh}, {hw, 0}, {0, hh}, {-hw, 0}}
}

func ellipseOutline(s Shape, dy float64) float64 {
	r := dy / s.HalfHeight
	return s.HalfWidth * math.Sqrt(math.Max(0, 1-r*r))
}

func rectOutline(s Shape, _ float64) float64 {
	return s.HalfWidth
}

func diamondOutline(s Shape, dy float64) float64 {
	return s.HalfWidth * (1 - math.Abs(dy)/s.HalfHeight)
}

var shapes = map[ElementType]Shape{
	Start:    {HalfWidth: 60, HalfHeight: 30, Offsets: anchors(60, 30), Label: "Inicio", outline: ellipseOutline},
	Process:  {HalfWidth: 75, HalfHeight: 25, Offsets: anchors(75, 25), Label: "Proceso", outline: rectOutline},
	Decision: {HalfWidth: 70, HalfHeight: 35, Offsets: anchors(70, 35), Label: "¿Decisión?", outline: diamondOutline},
}

// ShapeOf returns the shape registered for t.
func ShapeOf(t ElementType) (Shape, bool) {
	s, ok := shapes[t]
	return s, ok
}

// ConnectionPointOffsets returns the anchor offsets of t relative to the
// element origin, or nil for an unknown type.
func ConnectionPointOffsets(t ElementType) []Point {
	s, ok := shapes[t]
	if !ok {
		return nil
	}
	out := make([]Point, NumConnectionPoints)
	copy(out, s.Offsets[:])
	return out
}

// ValidPoint reports whether idx addresses a connection point.
func ValidPoint(idx int) bool {
	return idx >= 0 && idx < NumConnectionPoints
}

// AbsolutePoint resolves connection point idx of e to world coordinates.
func AbsolutePoint(e Element, idx int) (Point, bool) {
	s, ok := shapes[e.Type]
	if !ok || !ValidPoint(idx) {
		return Point{}, false
	}
	return e.Position.Add(s.Offsets[idx]), true
}

// Contains reports whether p lies inside the outline of e.
func Contains(e Element, p Point) bool {
	s, ok := shapes[e.Type]
	if !ok {
		return false
	}
	d := p.Sub(e.Position)
	w, ok := s.HalfWidthAt(d.Y)
	return ok && math.Abs(d.X) <= w
}
