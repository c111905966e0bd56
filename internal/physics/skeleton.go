package physics

import "github.com/san-kum/dynpoly/internal/particle"

// Skeleton holds a monomer in its built shape with a spring between every
// pair of beads, each at its initial length.
type Skeleton struct {
	springs []*Spring
}

func NewSkeleton(m *particle.Monomer, k float64) *Skeleton {
	s := &Skeleton{}
	for i := 0; i < len(m.Beads); i++ {
		for j := i + 1; j < len(m.Beads); j++ {
			b1, b2 := m.Beads[i], m.Beads[j]
			sp := NewSpring(k, b2.Pos.Sub(b1.Pos).Norm())
			sp.SetBeads(b1, b2)
			s.springs = append(s.springs, sp)
		}
	}
	return s
}

func (s *Skeleton) Springs() int { return len(s.springs) }

func (s *Skeleton) AddForce() {
	for _, sp := range s.springs {
		sp.AddForce()
	}
}

func (s *Skeleton) PotentialEnergy() float64 {
	e := 0.0
	for _, sp := range s.springs {
		e += sp.PotentialEnergy()
	}
	return e
}
