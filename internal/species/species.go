// Package species holds the monomer types the engine ships with and builds
// fully wired bonds for them.
package species

import (
	"fmt"
	"sort"

	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

// Release selects the off-condition a species starts with.
type Release int

const (
	// ReleaseRate unbinds by a per-step Bernoulli draw.
	ReleaseRate Release = iota
	// ReleaseStretch unbinds once the partner drifts past the threshold.
	ReleaseStretch
	// ReleaseContact unbinds once the partner comes within the threshold.
	ReleaseContact
	// ReleaseNever has no off-condition.
	ReleaseNever
)

func (r Release) String() string {
	switch r {
	case ReleaseRate:
		return "rate"
	case ReleaseStretch:
		return "stretch"
	case ReleaseContact:
		return "contact"
	case ReleaseNever:
		return "never"
	default:
		return "unknown"
	}
}

// Definition describes one monomer type: its bead geometry, how it
// connects to a head neighbor and when it binds and releases.
type Definition struct {
	Name        string
	Description string

	Geometry     particle.Geometry
	Connection   bond.ConnectionKind
	CrossSprings bool

	MaxBonds int
	Severing bool

	BindHead, BindTail float64

	Release                  Release
	ReleaseHead, ReleaseTail float64

	// Filament species carry the nucleotide model.
	Filament bool
}

var catalog = map[string]Definition{
	"receptor": {
		Name:        "receptor",
		Description: "membrane receptor holding one ligand",
		Geometry:    particle.Rod,
		Connection:  bond.KindLigand,
		MaxBonds:    1,
		BindHead:    2, BindTail: 2,
		Release:     ReleaseRate,
		ReleaseHead: 0.001, ReleaseTail: 0.001,
	},
	"ligand": {
		Name:        "ligand",
		Description: "soluble ligand; any chain holding it carries at most two links",
		Geometry:    particle.Rod,
		Connection:  bond.KindLigand,
		MaxBonds:    2,
		BindHead:    2, BindTail: 2,
		Release:     ReleaseStretch,
		ReleaseHead: 3, ReleaseTail: 3,
	},
	"formin": {
		Name:        "formin",
		Description: "processive capper released on close contact",
		Geometry:    particle.Rod,
		Connection:  bond.KindLigand,
		MaxBonds:    1,
		BindHead:    2, BindTail: 2,
		Release:     ReleaseContact,
		ReleaseHead: 1, ReleaseTail: 1,
	},
	"factin": {
		Name:        "factin",
		Description: "heptamer actin subunit with ATP/ADP-Pi/ADP kinetics",
		Geometry:    particle.Heptamer,
		Connection:  bond.KindHeptamer,
		BindHead:    1.5, BindTail: 1.5,
		Release:     ReleaseRate,
		Filament:    true,
	},
	"cofilin": {
		Name:        "cofilin",
		Description: "severing protein that never releases on its own",
		Geometry:    particle.Rod,
		Connection:  bond.KindLigand,
		Severing:    true,
		BindHead:    1, BindTail: 1,
		Release:     ReleaseNever,
	},
	"rod": {
		Name:        "rod",
		Description: "generic two-bead filament joined end to end",
		Geometry:    particle.Rod,
		Connection:  bond.KindInline,
		BindHead:    1, BindTail: 1,
		Release:     ReleaseRate,
		ReleaseHead: 0.001, ReleaseTail: 0.001,
	},
	"prism": {
		Name:         "prism",
		Description:  "three-bead filament with cross-braced rails",
		Geometry:     particle.Triangle,
		Connection:   bond.KindTriangle,
		CrossSprings: true,
		BindHead:     1.5, BindTail: 1.5,
		Release:      ReleaseRate,
		ReleaseHead:  0.0005, ReleaseTail: 0.0005,
	},
}

// Lookup returns the named definition.
func Lookup(name string) (Definition, error) {
	d, ok := catalog[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownSpecies, name)
	}
	return d, nil
}

// Names lists the catalog in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultKinetics is the filament nucleotide model: ATP subunits hold,
// ADP subunits fall off the tail end fastest.
func DefaultKinetics() *bond.Kinetics {
	k := bond.NewKinetics()
	k.SetATPHydrolysisProb(0.02)
	k.SetADPReleasePiProb(0.005)
	k.SetADPPhosphorylationProb(0.001)
	k.SetHeadBasalRate(0.002)
	k.SetTailBasalRate(0.01)
	k.SetMultipliers(bond.ATP, 0.1, 0.1)
	k.SetMultipliers(bond.ADPPi, 0.5, 1)
	k.SetMultipliers(bond.ADP, 2, 5)
	return k
}
