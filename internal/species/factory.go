package species

import (
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// Factory turns monomers into bonds of one species. Every bond it makes
// shares the same *bond.Species, so kinetic updates reach all of them.
type Factory struct {
	def     Definition
	params  bond.Params
	species *bond.Species
	rng     dynamo.Rand
}

// NewFactory prepares bonds of def. kin is only used by filament species;
// nil selects DefaultKinetics.
func NewFactory(def Definition, params bond.Params, kin *bond.Kinetics, rng dynamo.Rand) *Factory {
	s := &bond.Species{Name: def.Name, MaxBonds: def.MaxBonds, Severing: def.Severing}
	if def.Filament {
		if kin == nil {
			kin = DefaultKinetics()
		}
		s.Kinetics = kin
	}
	return &Factory{def: def, params: params, species: s, rng: rng}
}

func (f *Factory) Definition() Definition { return f.def }
func (f *Factory) Species() *bond.Species { return f.species }

// Build lays out a fresh monomer and wraps it.
func (f *Factory) Build(b *particle.Builder, center, axis dynamo.Vec3) *bond.ActiveBond {
	return f.Wrap(b.Build(f.def.Geometry, center, axis))
}

// Wrap attaches a new active bond to an existing monomer.
func (f *Factory) Wrap(m *particle.Monomer) *bond.ActiveBond {
	return bond.New(m, f.species, f.Connection(m), f.OnCondition(), f.OffCondition())
}

// Connection builds the species' connection for m.
func (f *Factory) Connection(m *particle.Monomer) bond.Connection {
	switch f.def.Connection {
	case bond.KindInline:
		return bond.NewInline(m, f.params)
	case bond.KindTriangle:
		return bond.NewTriangle(m, f.params, f.def.CrossSprings)
	case bond.KindHeptamer:
		return bond.NewHeptamer(m, f.params)
	default:
		return bond.NewLigand(m, f.params)
	}
}

func (f *Factory) OnCondition() bond.OnCondition {
	return bond.NewProximityOn(f.def.BindHead, f.def.BindTail)
}

// OffCondition builds the release condition. Filament rates start at zero
// and follow the nucleotide state from the first transition on.
func (f *Factory) OffCondition() bond.OffCondition {
	switch f.def.Release {
	case ReleaseStretch:
		return bond.NewProximityOff(f.def.ReleaseHead, f.def.ReleaseTail)
	case ReleaseContact:
		return bond.NewContactOff(f.def.ReleaseHead, f.def.ReleaseTail)
	case ReleaseNever:
		return nil
	}
	if f.def.Filament {
		return bond.NewRateOff(f.rng, 0, 0)
	}
	return bond.NewRateOff(f.rng, f.def.ReleaseHead, f.def.ReleaseTail)
}
