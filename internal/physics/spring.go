package physics

import (
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

const (
	DefaultSpringConstant = 128.0
	DefaultUnstretched    = 0.5
	DefaultBendModulus    = 5.0
)

// Spring is a Hookean bond between two beads.
type Spring struct {
	k      float64
	l0     float64
	b1, b2 *particle.Bead
}

func NewSpring(k, l0 float64) *Spring {
	s := &Spring{k: DefaultSpringConstant, l0: DefaultUnstretched}
	s.SetParams(k, l0)
	return s
}

func (s *Spring) SetBeads(b1, b2 *particle.Bead) {
	s.b1, s.b2 = b1, b2
}

// SetParams updates the spring constant and unstretched length; negative
// values are ignored individually.
func (s *Spring) SetParams(k, l0 float64) {
	if k >= 0 {
		s.k = k
	}
	if l0 >= 0 {
		s.l0 = l0
	}
}

func (s *Spring) SpringConstant() float64 { return s.k }
func (s *Spring) Unstretched() float64    { return s.l0 }
func (s *Spring) Wired() bool             { return s.b1 != nil && s.b2 != nil }

func (s *Spring) Beads() (*particle.Bead, *particle.Bead) {
	return s.b1, s.b2
}

func (s *Spring) Length() float64 {
	if !s.Wired() {
		return 0
	}
	return s.b2.Pos.Sub(s.b1.Pos).Norm()
}

func (s *Spring) AddForce() {
	if !s.Wired() {
		return
	}
	d := s.b2.Pos.Sub(s.b1.Pos)
	r := d.Norm()
	if r == 0 {
		return
	}
	// Pulls b1 toward b2 when stretched.
	f := d.Scale(s.k * (r - s.l0) / r)
	s.b1.AddForce(f)
	s.b2.AddForce(f.Scale(-1))
}

func (s *Spring) PotentialEnergy() float64 {
	if !s.Wired() {
		return 0
	}
	dr := s.Length() - s.l0
	return 0.5 * s.k * dr * dr
}

// Force returns the force the spring currently exerts on its first bead.
func (s *Spring) Force() dynamo.Vec3 {
	if !s.Wired() {
		return dynamo.Vec3{}
	}
	d := s.b2.Pos.Sub(s.b1.Pos)
	r := d.Norm()
	if r == 0 {
		return dynamo.Vec3{}
	}
	return d.Scale(s.k * (r - s.l0) / r)
}
