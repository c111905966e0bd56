package sim

import (
	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/integrators"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/physics"
)

// resetter is implemented by integrators that cache forces across steps.
type resetter interface {
	Reset()
}

// System couples the assembly engine to an integrator over the beads of
// every bond in the engine's arena.
type System struct {
	engine     *assembly.Engine
	integrator integrators.Integrator
	beads      []*particle.Bead
	skeletons  []*physics.Skeleton
	forces     integrators.ForceFunc
}

// NewSystem collects the beads of every bond. A positive skeleton
// stiffness keeps each monomer in its built shape.
func NewSystem(engine *assembly.Engine, integ integrators.Integrator, skeleton float64) *System {
	s := &System{engine: engine, integrator: integ}
	for _, b := range engine.Arena().Bonds() {
		m := b.Monomer()
		s.beads = append(s.beads, m.Beads...)
		if skeleton > 0 && m.Size() > 1 {
			s.skeletons = append(s.skeletons, physics.NewSkeleton(m, skeleton))
		}
	}
	s.forces = s.Forces
	return s
}

func (s *System) Engine() *assembly.Engine           { return s.engine }
func (s *System) Arena() *bond.Arena                 { return s.engine.Arena() }
func (s *System) Integrator() integrators.Integrator { return s.integrator }
func (s *System) Beads() []*particle.Bead            { return s.beads }

// Forces recomputes every bead force.
func (s *System) Forces() {
	s.engine.ForcePass()
	for _, sk := range s.skeletons {
		sk.AddForce()
	}
}

// Step runs the assembly passes, then moves the beads by dt.
func (s *System) Step(dt float64) assembly.PassStats {
	stats := s.engine.Step()
	if r, ok := s.integrator.(resetter); ok && stats.TopologyChanged() {
		r.Reset()
	}
	s.integrator.Step(s.beads, s.forces, dt)
	return stats
}

// Valid reports whether every bead position is finite.
func (s *System) Valid() bool {
	for _, b := range s.beads {
		if !b.Pos.IsValid() {
			return false
		}
	}
	return true
}

// Sample snapshots the system.
func (s *System) Sample(step int, t float64) Sample {
	bonds := s.Arena().Bonds()
	out := Sample{Step: step, Time: t, Monomers: len(bonds), Totals: s.engine.Totals()}
	for _, b := range bonds {
		if !b.Polymerized() {
			out.Free++
		}
		if b.Species().Kinetics == nil {
			continue
		}
		switch b.Nucleotide() {
		case bond.ATP:
			out.ATP++
		case bond.ADPPi:
			out.ADPPi++
		case bond.ADP:
			out.ADP++
		}
	}
	for _, c := range s.Arena().Chains() {
		out.Chains++
		out.Polymerized += len(c)
		if len(c) > out.MaxChain {
			out.MaxChain = len(c)
		}
	}
	if out.Chains > 0 {
		out.MeanChain = float64(out.Polymerized) / float64(out.Chains)
	}
	out.BondEnergy = s.engine.PotentialEnergy()
	for _, sk := range s.skeletons {
		out.BondEnergy += sk.PotentialEnergy()
	}
	for _, b := range s.beads {
		m := b.Mass
		if m <= 0 {
			m = 1
		}
		out.KineticEnergy += 0.5 * m * b.Vel.NormSq()
	}
	return out
}
