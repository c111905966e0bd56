package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/sim"
	"github.com/san-kum/dynpoly/internal/species"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *zap.Logger
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry, logger *zap.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// Setup validates the configuration, builds the system for seed and
// attaches metrics and observers.
func (e *Experiment) Setup(seed int64, metrics []sim.Metric, observers ...sim.Observer) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	sys, err := Build(e.cfg, e.registry, seed, e.logger)
	if err != nil {
		return err
	}
	e.simulator = sim.New(sys)
	e.simulator.SetLogger(e.logger)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	for _, o := range observers {
		e.simulator.AddObserver(o)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

// SimConfig extracts the stepping parameters.
func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{Dt: cfg.Dt, Steps: cfg.Steps, SampleEvery: cfg.SampleEvery, ValidateState: true}
}

// Ensemble prepares runs independent copies of cfg with consecutive seeds.
func Ensemble(cfg *config.Config, registry *Registry, runs int, logger *zap.Logger) *sim.Ensemble {
	if registry == nil {
		registry = NewRegistry()
	}
	build := func(seed int64) (*sim.Simulator, error) {
		sys, err := Build(cfg, registry, seed, logger)
		if err != nil {
			return nil, err
		}
		s := sim.New(sys)
		for _, m := range registry.DefaultMetrics() {
			s.AddMetric(m)
		}
		return s, nil
	}
	return sim.NewEnsemble(build, runs, cfg.Seed)
}

// Build lays out every population of cfg in its box and returns the
// system ready to step. All randomness derives from seed.
func Build(cfg *config.Config, registry *Registry, seed int64, logger *zap.Logger) (*sim.System, error) {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(seed))
	integ, err := registry.GetIntegrator(cfg.Integrator, cfg, rng)
	if err != nil {
		return nil, err
	}

	params := cfg.Connection.Params()
	kin := cfg.Kinetics.Build()
	arena := bond.NewArena()
	builder := particle.NewBuilder()
	half := cfg.Box / 2

	for i, pop := range cfg.Populations {
		def, err := registry.GetSpecies(pop.Species)
		if err != nil {
			return nil, fmt.Errorf("population %d: %w", i, err)
		}
		def = override(def, pop)
		f := species.NewFactory(def, params, kin, rng)

		var seedChain []*bond.ActiveBond
		if pop.Seed > 0 {
			seedChain = layChain(f, builder, pop.Seed, pitch(def, params.LinkLength, builder.Spacing), half, rng)
		}
		for _, b := range seedChain {
			if !arena.Add(b) {
				return nil, fmt.Errorf("%w: duplicate bond %d", dynamo.ErrInvalidState, b.ID())
			}
		}
		for j := 0; j+1 < len(seedChain); j++ {
			if !seedChain[j].AddHeadAdjacentBond(seedChain[j+1]) {
				return nil, fmt.Errorf("%w: seed chain link %d of population %d", dynamo.ErrInvalidState, j, i)
			}
		}
		for j := pop.Seed; j < pop.Count; j++ {
			b := f.Build(builder, randomPoint(rng, half), randomAxis(rng))
			if !arena.Add(b) {
				return nil, fmt.Errorf("%w: duplicate bond %d", dynamo.ErrInvalidState, b.ID())
			}
		}
		logger.Debug("population placed",
			zap.String("species", def.Name),
			zap.Int("count", pop.Count),
			zap.Int("seed_chain", len(seedChain)),
		)
	}

	engine := assembly.NewEngine(arena, rng,
		assembly.WithLogger(logger),
		assembly.WithPairSource(assembly.ExhaustivePairs{Radius: cfg.CaptureRadius}),
	)
	return sim.NewSystem(engine, integ, cfg.Skeleton), nil
}

// override applies a population's non-zero thresholds.
func override(def species.Definition, pop config.PopulationConfig) species.Definition {
	if pop.BindHead > 0 {
		def.BindHead = pop.BindHead
	}
	if pop.BindTail > 0 {
		def.BindTail = pop.BindTail
	}
	if pop.ReleaseHead > 0 {
		def.ReleaseHead = pop.ReleaseHead
	}
	if pop.ReleaseTail > 0 {
		def.ReleaseTail = pop.ReleaseTail
	}
	return def
}

// pitch is the centre-to-centre spacing that leaves a connection at rest.
// Inline springs run from one monomer's head bead to the next one's tail
// bead, so the monomer's own length adds to the link.
func pitch(def species.Definition, link, spacing float64) float64 {
	if def.Connection == bond.KindInline && def.Geometry != particle.Single {
		return link + spacing
	}
	return link
}

// layChain places n monomers along a random axis through a random point,
// spaced link apart and centred so the chain fits in the box when it can.
func layChain(f *species.Factory, builder *particle.Builder, n int, link, half float64, rng *rand.Rand) []*bond.ActiveBond {
	axis := randomAxis(rng)
	span := float64(n-1) * link
	room := math.Max(half-span/2, 0)
	start := randomPoint(rng, room).Sub(axis.Scale(span / 2))
	out := make([]*bond.ActiveBond, n)
	for i := range out {
		out[i] = f.Build(builder, start.Add(axis.Scale(float64(i)*link)), axis)
	}
	return out
}

func randomPoint(rng *rand.Rand, half float64) dynamo.Vec3 {
	return dynamo.Vec3{
		X: (2*rng.Float64() - 1) * half,
		Y: (2*rng.Float64() - 1) * half,
		Z: (2*rng.Float64() - 1) * half,
	}
}

func randomAxis(rng *rand.Rand) dynamo.Vec3 {
	for {
		v := dynamo.Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if n := v.Norm(); n > 1e-9 {
			return v.Scale(1 / n)
		}
	}
}
