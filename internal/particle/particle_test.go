package particle

import (
	"math"
	"testing"

	"github.com/san-kum/dynpoly/internal/dynamo"
)

func TestMonomerRoles(t *testing.T) {
	h := NewBead(0, dynamo.Vec3{X: 1})
	m := NewBead(1, dynamo.Vec3{})
	tl := NewBead(2, dynamo.Vec3{X: -1})
	mono := NewMonomer(5, h, m, tl)

	if mono.Head() != h || mono.Middle() != m || mono.Tail() != tl {
		t.Error("head/middle/tail roles wrong")
	}
	if mono.Bead(3) != nil || mono.Bead(-1) != nil {
		t.Error("out of range bead should be nil")
	}
	if c := mono.Center(); c != (dynamo.Vec3{}) {
		t.Errorf("center = %v, want origin", c)
	}
}

func TestSingleBeadMonomer(t *testing.T) {
	b := NewBead(0, dynamo.Vec3{})
	mono := NewMonomer(1, b)
	if mono.Head() != b || mono.Tail() != b || mono.Middle() != b {
		t.Error("single bead monomer must use the bead for every role")
	}
}

func TestBuilderGeometry(t *testing.T) {
	tests := []struct {
		g     Geometry
		beads int
	}{
		{Single, 1},
		{Rod, 2},
		{Triangle, 3},
		{Heptamer, 7},
	}

	bl := NewBuilder()
	seen := map[int64]bool{}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			m := bl.Build(tt.g, dynamo.Vec3{X: 5}, dynamo.Vec3{Z: 2})
			if m.Size() != tt.beads {
				t.Fatalf("size = %d, want %d", m.Size(), tt.beads)
			}
			if seen[m.ID] {
				t.Errorf("duplicate monomer id %d", m.ID)
			}
			seen[m.ID] = true
			if tt.beads > 1 {
				d := m.Head().Pos.Sub(m.Tail().Pos)
				if math.Abs(d.Norm()-bl.Spacing) > 1e-9 {
					t.Errorf("head-tail distance = %v, want %v", d.Norm(), bl.Spacing)
				}
			}
		})
	}
}

func TestBuilderHeptamerRing(t *testing.T) {
	bl := NewBuilder()
	center := dynamo.Vec3{X: 1, Y: -2, Z: 3}
	axis := dynamo.Vec3{X: 1, Y: 1}.Unit()
	m := bl.Build(Heptamer, center, axis)

	if d := m.Middle().Pos.Sub(center).Norm(); d > 1e-12 {
		t.Errorf("middle bead %v off centre", d)
	}
	ring := []*Bead{m.Beads[1], m.Beads[2], m.Beads[4], m.Beads[5]}
	r := bl.Spacing / 2
	for i, b := range ring {
		off := b.Pos.Sub(center)
		if math.Abs(off.Norm()-r) > 1e-9 {
			t.Errorf("ring bead %d radius = %v, want %v", i, off.Norm(), r)
		}
		if math.Abs(off.Dot(axis)) > 1e-9 {
			t.Errorf("ring bead %d not perpendicular to axis", i)
		}
	}
	for i := range ring {
		j := (i + 1) % len(ring)
		side := ring[j].Pos.Sub(ring[i].Pos).Norm()
		if math.Abs(side-r*math.Sqrt2) > 1e-9 {
			t.Errorf("ring side %d-%d = %v, want %v", i, j, side, r*math.Sqrt2)
		}
	}
}

func TestVisibilityAndForces(t *testing.T) {
	m := NewBuilder().Build(Triangle, dynamo.Vec3{}, dynamo.Vec3{X: 1})
	m.SetVisible(false)
	if m.IsVisible() {
		t.Error("expected invisible")
	}
	m.Head().AddForce(dynamo.Vec3{X: 1})
	m.ResetForces()
	if m.Head().Force != (dynamo.Vec3{}) {
		t.Error("forces not reset")
	}
}
