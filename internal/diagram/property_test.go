package diagram

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"flowedit/internal/ids"
)

// applyOps interprets each op as a graph mutation so that arbitrary integer
// sequences drive the model through create, connect, move and delete.
func applyOps(d *Diagram, ops []int) {
	types := Types()
	for i, op := range ops {
		elems := d.Elements()
		switch op % 5 {
		case 0, 1:
			_, _ = d.CreateElement(types[op%len(types)], float64(op*7%500), float64(i*13%400))
		case 2:
			if len(elems) > 0 {
				a := elems[op%len(elems)]
				b := elems[(op/5)%len(elems)]
				_, _ = d.CreateConnection(a.ID, op%NumConnectionPoints, b.ID, (op/3)%NumConnectionPoints)
			}
		case 3:
			if len(elems) > 0 {
				_ = d.MoveElement(elems[op%len(elems)].ID, float64(op), float64(-op))
			}
		case 4:
			if len(elems) > 0 {
				d.DeleteElement(elems[op%len(elems)].ID)
			}
		}
	}
}

func referencesAreLive(d *Diagram) bool {
	for _, c := range d.Connections() {
		if _, ok := d.Element(c.StartID); !ok {
			return false
		}
		if _, ok := d.Element(c.EndID); !ok {
			return false
		}
		if c.StartID == c.EndID {
			return false
		}
	}
	return true
}

func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	opsGen := gen.SliceOf(gen.IntRange(0, 999))

	properties.Property("connections only reference live elements", prop.ForAll(
		func(ops []int) bool {
			d := New(WithIDGenerator(ids.Sequence("p")))
			applyOps(d, ops)
			return referencesAreLive(d)
		},
		opsGen,
	))

	properties.Property("delete removes exactly the touching connections", prop.ForAll(
		func(ops []int, pick int) bool {
			d := New(WithIDGenerator(ids.Sequence("p")))
			applyOps(d, ops)
			elems := d.Elements()
			if len(elems) == 0 {
				return true
			}
			victim := elems[pick%len(elems)].ID

			want := map[string]bool{}
			for _, c := range d.Connections() {
				if !c.Touches(victim) {
					want[c.ID] = true
				}
			}
			d.DeleteElement(victim)

			got := d.Connections()
			if len(got) != len(want) {
				return false
			}
			for _, c := range got {
				if !want[c.ID] {
					return false
				}
			}
			return true
		},
		opsGen,
		gen.IntRange(0, 1000),
	))

	properties.Property("moved elements carry their connection endpoints", prop.ForAll(
		func(ops []int, x, y float64) bool {
			d := New(WithIDGenerator(ids.Sequence("p")))
			applyOps(d, ops)
			elems := d.Elements()
			if len(elems) == 0 {
				return true
			}
			target := elems[0]
			if err := d.MoveElement(target.ID, x, y); err != nil {
				return false
			}
			offsets := ConnectionPointOffsets(target.Type)
			for _, c := range d.ConnectionsOf(target.ID) {
				from, to, ok := d.Endpoints(c.ID)
				if !ok {
					return false
				}
				if c.StartID == target.ID && from != (Point{x, y}).Add(offsets[c.StartPoint]) {
					return false
				}
				if c.EndID == target.ID && to != (Point{x, y}).Add(offsets[c.EndPoint]) {
					return false
				}
			}
			return true
		},
		opsGen,
		gen.Float64Range(-2000, 2000),
		gen.Float64Range(-2000, 2000),
	))

	properties.Property("snapshot round-trips", prop.ForAll(
		func(ops []int) bool {
			d := New(WithIDGenerator(ids.Sequence("p")))
			applyOps(d, ops)
			before := d.Snapshot()

			restored, report := FromSnapshot(before)
			if len(report.SkippedElements) > 0 || len(report.SkippedConnections) > 0 {
				return false
			}
			after := restored.Snapshot()
			if len(after.Elements) != len(before.Elements) || len(after.Connections) != len(before.Connections) {
				return false
			}
			for id, e := range before.Elements {
				if after.Elements[id] != e {
					return false
				}
			}
			for id, c := range before.Connections {
				if after.Connections[id] != c {
					return false
				}
			}
			return true
		},
		opsGen,
	))

	properties.Property("self loops are always refused", prop.ForAll(
		func(p1, p2 int) bool {
			d := New()
			id, _ := d.CreateElement(Process, 0, 0)
			_, err := d.CreateConnection(id, p1, id, p2)
			return err != nil && d.NumConnections() == 0
		},
		gen.IntRange(-10, 10),
		gen.IntRange(-10, 10),
	))

	properties.TestingRun(t)
}
