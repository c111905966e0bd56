package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/integrators"
	"github.com/san-kum/dynpoly/internal/metrics"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/species"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Steps = 40
	cfg.SampleEvery = 10
	cfg.Populations = []config.PopulationConfig{
		{Species: "factin", Count: 12, Seed: 4},
		{Species: "formin", Count: 3},
	}
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"brownian", "verlet"}, r.ListIntegrators())
	assert.Equal(t, species.Names(), r.ListSpecies())

	_, err := r.GetSpecies("myosin")
	assert.True(t, errors.Is(err, dynamo.ErrUnknownSpecies))
	_, err = r.GetIntegrator("rk4", config.DefaultConfig(), nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownIntegrator))

	integ, err := r.GetIntegrator("brownian", config.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, integ.(*integrators.Brownian).Box.Bounded())

	r.RegisterSpecies(species.Definition{Name: "myosin"})
	_, err = r.GetSpecies("myosin")
	assert.NoError(t, err)
}

func TestBuild(t *testing.T) {
	cfg := smallConfig()
	sys, err := Build(cfg, NewRegistry(), 7, nil)
	require.NoError(t, err)

	arena := sys.Arena()
	assert.Equal(t, 15, arena.Len())

	chains := arena.Chains()
	require.Len(t, chains, 1)
	assert.Len(t, chains[0], 4)
	for _, b := range chains[0] {
		assert.Equal(t, "factin", b.Species().Name)
		assert.Equal(t, bond.KindHeptamer, b.Connection().Kind())
	}
	assert.Equal(t, 12*7+3*2, len(sys.Beads()))

	box := integrators.NewBox(cfg.Box)
	for _, b := range arena.Bonds() {
		if !b.Polymerized() {
			assert.True(t, box.Contains(b.Monomer().Center()), "monomer %d outside the box", b.ID())
		}
	}
}

func TestBuildSeededChainAtRest(t *testing.T) {
	tests := []struct {
		species string
		kind    bond.ConnectionKind
	}{
		{"ligand", bond.KindLigand},
		{"rod", bond.KindInline},
		{"prism", bond.KindTriangle},
		{"factin", bond.KindHeptamer},
	}
	for _, tt := range tests {
		t.Run(tt.species, func(t *testing.T) {
			cfg := smallConfig()
			cfg.KT = 0
			cfg.Populations = []config.PopulationConfig{{Species: tt.species, Count: 3, Seed: 3}}
			sys, err := Build(cfg, NewRegistry(), 3, nil)
			require.NoError(t, err)

			chains := sys.Arena().Chains()
			require.Len(t, chains, 1)
			require.Len(t, chains[0], 3)
			assert.Equal(t, tt.kind, chains[0][0].Connection().Kind())
			assert.InDelta(t, 0, sys.Engine().PotentialEnergy(), 1e-9)
			assert.InDelta(t, 0, sys.Sample(0, 0).BondEnergy, 1e-9)
		})
	}
}

func TestPitch(t *testing.T) {
	rod, err := species.Lookup("rod")
	require.NoError(t, err)
	factin, err := species.Lookup("factin")
	require.NoError(t, err)

	assert.InDelta(t, 1.5, pitch(rod, 1, 0.5), 1e-12)
	assert.InDelta(t, 1.0, pitch(factin, 1, 0.5), 1e-12)
	rod.Geometry = particle.Single
	assert.InDelta(t, 1.0, pitch(rod, 1, 0.5), 1e-12)
}

func TestBuildDeterministic(t *testing.T) {
	a, err := Build(smallConfig(), NewRegistry(), 5, nil)
	require.NoError(t, err)
	b, err := Build(smallConfig(), NewRegistry(), 5, nil)
	require.NoError(t, err)

	for i := range a.Beads() {
		assert.Equal(t, a.Beads()[i].Pos, b.Beads()[i].Pos)
	}
}

func TestBuildOverrides(t *testing.T) {
	cfg := smallConfig()
	cfg.Populations = []config.PopulationConfig{{Species: "receptor", Count: 2, BindHead: 0.7, ReleaseTail: 0.3}}
	sys, err := Build(cfg, NewRegistry(), 1, nil)
	require.NoError(t, err)

	b := sys.Arena().Bonds()[0]
	on := b.OnCondition().(*bond.ProximityOn)
	assert.Equal(t, 0.7, on.MaxHeadSeparation())
	assert.Equal(t, 2.0, on.MaxTailSeparation())
	off := b.OffCondition().(*bond.RateOff)
	assert.Equal(t, 0.3, off.TailRate())
}

func TestBuildErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Integrator = "rk4"
	_, err := Build(cfg, NewRegistry(), 1, nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownIntegrator))

	cfg = smallConfig()
	cfg.Populations[1].Species = "myosin"
	_, err = Build(cfg, NewRegistry(), 1, nil)
	assert.True(t, errors.Is(err, dynamo.ErrUnknownSpecies))
}

func TestExperimentRun(t *testing.T) {
	cfg := smallConfig()
	// Without hydrolysis filament off-rates stay zero and the seed holds.
	cfg.Kinetics.Hydrolysis = 0
	exp := New(cfg, nil, nil)

	_, err := exp.Run(context.Background())
	assert.Error(t, err, "run before setup")

	require.NoError(t, exp.Setup(1, metrics.Defaults()))
	result, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Samples, 5)
	assert.Equal(t, 15, result.Final().Monomers)
	assert.Contains(t, result.Metrics, "polymer_fraction")
	assert.GreaterOrEqual(t, result.Final().MaxChain, 4)
}

func TestExperimentSetupValidates(t *testing.T) {
	cfg := smallConfig()
	cfg.Dt = 0
	err := New(cfg, nil, nil).Setup(1, nil)
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestEnsemble(t *testing.T) {
	cfg := smallConfig()
	results, err := Ensemble(cfg, nil, 3, nil).Run(context.Background(), SimConfig(cfg))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, 40, r.StepsTaken)
		assert.Contains(t, r.Metrics, "max_chain_length")
	}
}
