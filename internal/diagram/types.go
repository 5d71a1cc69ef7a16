// Package diagram holds the flowchart graph model: elements, the
// connections between their connection points, shape geometry and the
// plain snapshot used for persistence and file exchange.
package diagram

import "errors"

var (
	ErrInvalidType       = errors.New("diagram: invalid element type")
	ErrInvalidConnection = errors.New("diagram: invalid connection")
	ErrNotFound          = errors.New("diagram: not found")
	ErrEmptyLabel        = errors.New("diagram: empty label")
)

// ElementType classifies a flowchart shape.
type ElementType string

const (
	Start    ElementType = "start"
	Process  ElementType = "process"
	Decision ElementType = "decision"
)

// Types lists every known element type in toolbar order.
func Types() []ElementType {
	return []ElementType{Start, Process, Decision}
}

// Valid reports whether t has a registered shape.
func (t ElementType) Valid() bool {
	_, ok := shapes[t]
	return ok
}

// DefaultLabel is the label a freshly created element of type t carries.
func (t ElementType) DefaultLabel() string {
	if s, ok := shapes[t]; ok {
		return s.Label
	}
	return ""
}

// Point is a position in world units.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Element is a placed shape. ID and Type never change after creation.
type Element struct {
	ID       string
	Type     ElementType
	Position Point
	Label    string
}

// Connection links a connection point of one element to a connection point
// of another. Elements are referenced by id only.
type Connection struct {
	ID         string
	StartID    string
	StartPoint int
	EndID      string
	EndPoint   int
}

// Touches reports whether the connection references element id.
func (c Connection) Touches(id string) bool {
	return c.StartID == id || c.EndID == id
}
