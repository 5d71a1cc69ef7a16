package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionPointOffsets(t *testing.T) {
	tests := []struct {
		typ  ElementType
		want []Point
	}{
		{Start, []Point{{0, -30}, {60, 0}, {0, 30}, {-60, 0}}},
		{Process, []Point{{0, -25}, {75, 0}, {0, 25}, {-75, 0}}},
		{Decision, []Point{{0, -35}, {70, 0}, {0, 35}, {-70, 0}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, ConnectionPointOffsets(tt.typ))
		})
	}
	assert.Nil(t, ConnectionPointOffsets("cloud"))
}

func TestAbsolutePoint(t *testing.T) {
	e := Element{Type: Process, Position: Point{300, 100}}

	p, ok := AbsolutePoint(e, 3)
	require.True(t, ok)
	assert.Equal(t, Point{225, 100}, p)

	_, ok = AbsolutePoint(e, 4)
	assert.False(t, ok)
	_, ok = AbsolutePoint(Element{Type: "cloud"}, 0)
	assert.False(t, ok)
}

func TestContains(t *testing.T) {
	start := Element{Type: Start, Position: Point{0, 0}}
	process := Element{Type: Process, Position: Point{0, 0}}
	decision := Element{Type: Decision, Position: Point{0, 0}}

	tests := []struct {
		name string
		e    Element
		p    Point
		want bool
	}{
		{"ellipse centre", start, Point{0, 0}, true},
		{"ellipse corner is outside", start, Point{55, 28}, false},
		{"ellipse edge", start, Point{60, 0}, true},
		{"rect corner", process, Point{75, 25}, true},
		{"rect outside", process, Point{76, 0}, false},
		{"diamond near tip", decision, Point{0, 34}, true},
		{"diamond corner is outside", decision, Point{60, 30}, false},
		{"diamond midway", decision, Point{35, 17}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.e, tt.p))
		})
	}
}
