// Package particle models the beads and monomers the assembly engine binds.
//
// A [Monomer] is a pre-built aggregate of beads with head, middle and tail
// roles. The assembly engine references monomers; it never owns them.
package particle

import (
	"math"

	"github.com/san-kum/dynpoly/internal/dynamo"
)

// Bead is a point particle with a force accumulator.
type Bead struct {
	ID      int64
	Pos     dynamo.Vec3
	Vel     dynamo.Vec3
	Force   dynamo.Vec3
	Mass    float64
	Visible bool
}

func NewBead(id int64, pos dynamo.Vec3) *Bead {
	return &Bead{ID: id, Pos: pos, Mass: 1.0, Visible: true}
}

// AddForce accumulates f into the bead's force.
func (b *Bead) AddForce(f dynamo.Vec3) {
	b.Force = b.Force.Add(f)
}

func (b *Bead) ResetForce() {
	b.Force = dynamo.Vec3{}
}

// Monomer is an ordered group of beads. Beads[0] is the head and the last
// bead is the tail; the middle is the central bead.
type Monomer struct {
	ID    int64
	Beads []*Bead
}

// NewMonomer panics if beads is empty: a monomer without anchors cannot be
// wrapped by a bond.
func NewMonomer(id int64, beads ...*Bead) *Monomer {
	if len(beads) == 0 {
		panic("particle: monomer needs at least one bead")
	}
	return &Monomer{ID: id, Beads: beads}
}

func (m *Monomer) Head() *Bead   { return m.Beads[0] }
func (m *Monomer) Tail() *Bead   { return m.Beads[len(m.Beads)-1] }
func (m *Monomer) Middle() *Bead { return m.Beads[len(m.Beads)/2] }
func (m *Monomer) Size() int     { return len(m.Beads) }

// Bead returns the i-th bead or nil when out of range.
func (m *Monomer) Bead(i int) *Bead {
	if i < 0 || i >= len(m.Beads) {
		return nil
	}
	return m.Beads[i]
}

// Center is the unweighted centroid of the monomer's beads.
func (m *Monomer) Center() dynamo.Vec3 {
	var c dynamo.Vec3
	for _, b := range m.Beads {
		c = c.Add(b.Pos)
	}
	return c.Scale(1 / float64(len(m.Beads)))
}

func (m *Monomer) SetVisible(visible bool) {
	for _, b := range m.Beads {
		b.Visible = visible
	}
}

func (m *Monomer) IsVisible() bool {
	return m.Head().Visible
}

func (m *Monomer) ResetForces() {
	for _, b := range m.Beads {
		b.ResetForce()
	}
}

// Geometry describes how a monomer's beads are laid out when built.
type Geometry int

const (
	Single   Geometry = 1
	Rod      Geometry = 2
	Triangle Geometry = 3
	Heptamer Geometry = 7
)

func (g Geometry) String() string {
	switch g {
	case Single:
		return "single"
	case Rod:
		return "rod"
	case Triangle:
		return "triangle"
	case Heptamer:
		return "heptamer"
	default:
		return "unknown"
	}
}

// Builder allocates monomers with unique, monotonically increasing ids for
// both monomers and beads.
type Builder struct {
	nextMonomer int64
	nextBead    int64
	Spacing     float64
}

func NewBuilder() *Builder {
	return &Builder{Spacing: 0.5}
}

// Build lays the monomer out around center. The head points along +axis.
// Triangle adds one side bead. Heptamer is head, a square ring of four
// beads perpendicular to axis with the centre bead at index 3 (Middle)
// between its halves, then tail.
func (bl *Builder) Build(g Geometry, center, axis dynamo.Vec3) *Monomer {
	axis = axis.Unit()
	if axis.NormSq() == 0 {
		axis = dynamo.Vec3{X: 1}
	}
	half := axis.Scale(bl.Spacing / 2)

	var positions []dynamo.Vec3
	switch g {
	case Rod:
		positions = []dynamo.Vec3{center.Add(half), center.Sub(half)}
	case Triangle:
		side := perpendicular(axis).Scale(bl.Spacing / 2)
		positions = []dynamo.Vec3{center.Add(half), center.Add(side), center.Sub(half)}
	case Heptamer:
		p := perpendicular(axis).Scale(bl.Spacing / 2)
		q := axis.Cross(p)
		positions = []dynamo.Vec3{
			center.Add(half),
			center.Add(p), center.Add(q),
			center,
			center.Sub(p), center.Sub(q),
			center.Sub(half),
		}
	default:
		positions = []dynamo.Vec3{center}
	}

	beads := make([]*Bead, len(positions))
	for i, pos := range positions {
		beads[i] = NewBead(bl.nextBead, pos)
		bl.nextBead++
	}
	m := NewMonomer(bl.nextMonomer, beads...)
	bl.nextMonomer++
	return m
}

func perpendicular(axis dynamo.Vec3) dynamo.Vec3 {
	ref := dynamo.Vec3{Z: 1}
	if math.Abs(axis.Z) > 0.9 {
		ref = dynamo.Vec3{X: 1}
	}
	return axis.Cross(ref).Unit()
}
