package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"go.uber.org/goleak"

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/integrators"
	"github.com/san-kum/dynpoly/internal/particle"
	"github.com/san-kum/dynpoly/internal/species"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestSystem lays n monomers of the named species along +x, spaced one
// unit apart, and links the first `linked` of them into a chain.
func newTestSystem(t testing.TB, seed int64, name string, n, linked int) *System {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	def, err := species.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	params := bond.DefaultParams()
	params.LinkLength = 1
	f := species.NewFactory(def, params, nil, rng)

	arena := bond.NewArena()
	builder := particle.NewBuilder()
	var bonds []*bond.ActiveBond
	for i := 0; i < n; i++ {
		b := f.Build(builder, dynamo.Vec3{X: float64(i)}, dynamo.Vec3{X: 1})
		if !arena.Add(b) {
			t.Fatalf("add bond %d", i)
		}
		bonds = append(bonds, b)
	}
	for i := 0; i+1 < linked; i++ {
		if !bonds[i].AddHeadAdjacentBond(bonds[i+1]) {
			t.Fatalf("link %d", i)
		}
	}

	engine := assembly.NewEngine(arena, rng)
	return NewSystem(engine, integrators.NewBrownian(1, 0.01, rng), 100)
}

func TestSimulatorRun(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 6, 0))

	cfg := Config{Dt: 0.001, Steps: 100, SampleEvery: 10}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	final := result.Final()
	if final.Step != 100 || math.Abs(final.Time-0.1) > 1e-9 {
		t.Errorf("final sample at step %d time %.4f", final.Step, final.Time)
	}
	if final.Monomers != 6 {
		t.Errorf("expected 6 monomers, got %d", final.Monomers)
	}
	if result.Totals != sim.System().Engine().Totals() {
		t.Errorf("totals %+v do not match engine", result.Totals)
	}
}

func TestSimulatorSamplesFinalStep(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 3, 0))

	result, err := sim.Run(context.Background(), Config{Dt: 0.001, Steps: 25, SampleEvery: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var steps []int
	for _, s := range result.Samples {
		steps = append(steps, s.Step)
	}
	want := []int{0, 10, 20, 25}
	if len(steps) != len(want) {
		t.Fatalf("sample steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("sample steps = %v, want %v", steps, want)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 2, 0))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Steps: 10, SampleEvery: 1}},
		{"negative dt", Config{Dt: -0.1, Steps: 10, SampleEvery: 1}},
		{"zero steps", Config{Dt: 0.1, Steps: 0, SampleEvery: 1}},
		{"zero sample interval", Config{Dt: 0.1, Steps: 10, SampleEvery: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected parameter bounds error, got %v", err)
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s Sample) {
	t.count++
	t.sum += float64(s.Monomers)
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 4, 0))

	metric := &testMetric{}
	sim.AddMetric(metric)
	observed := 0
	sim.AddObserver(ObserverFunc(func(Sample) { observed++ }))

	result, err := sim.Run(context.Background(), Config{Dt: 0.001, Steps: 50, SampleEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got, ok := result.Metrics["test"]; !ok || got != 4 {
		t.Errorf("metric = %v (present %v), want 4", got, ok)
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
	if observed != 11 {
		t.Errorf("expected 11 observer calls, got %d", observed)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 2, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.001, Steps: 10, SampleEvery: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
	if len(result.Samples) != 1 {
		t.Errorf("expected only the initial sample, got %d", len(result.Samples))
	}
}

func TestSimulatorRunWithCallbackCanceled(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 2, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := sim.RunWithCallback(ctx, Config{Dt: 0.001, Steps: 10, SampleEvery: 1}, func(Sample) bool {
		calls++
		return true
	})
	if !errors.Is(err, dynamo.ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a canceled error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected only the initial sample, got %d callbacks", calls)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	sys := newTestSystem(t, 1, "rod", 2, 0)
	sys.Beads()[0].Pos.X = math.NaN()

	_, err := New(sys).Run(context.Background(), Config{Dt: 0.001, Steps: 10, SampleEvery: 1, ValidateState: true})

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimulationError, got %v", err)
	}
	if simErr.Step != 1 || !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("unexpected error %v at step %d", err, simErr.Step)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := New(newTestSystem(t, 1, "rod", 3, 0))

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.001, Steps: 100, SampleEvery: 10}, func(s Sample) bool {
		calls++
		return s.Step < 30
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 callbacks, got %d", calls)
	}
}

func TestSystemSample(t *testing.T) {
	sys := newTestSystem(t, 1, "factin", 5, 3)

	s := sys.Sample(7, 0.5)

	if s.Step != 7 || s.Time != 0.5 {
		t.Errorf("sample stamped %d/%v", s.Step, s.Time)
	}
	if s.Monomers != 5 || s.Free != 2 || s.Polymerized != 3 {
		t.Errorf("counts: monomers %d free %d polymerized %d", s.Monomers, s.Free, s.Polymerized)
	}
	if s.Chains != 1 || s.MaxChain != 3 || s.MeanChain != 3 {
		t.Errorf("chains %d max %d mean %v", s.Chains, s.MaxChain, s.MeanChain)
	}
	if s.ATP != 5 || s.ADPPi != 0 || s.ADP != 0 {
		t.Errorf("nucleotides %d/%d/%d", s.ATP, s.ADPPi, s.ADP)
	}
	if math.Abs(s.PolymerFraction()-0.6) > 1e-12 {
		t.Errorf("polymer fraction = %v", s.PolymerFraction())
	}
	if !s.IsValid() {
		t.Error("sample should be valid")
	}
}

func TestSystemCollectsBeads(t *testing.T) {
	sys := newTestSystem(t, 1, "factin", 4, 0)
	if got := len(sys.Beads()); got != 28 {
		t.Errorf("expected 28 beads, got %d", got)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	run := func() Sample {
		res, err := New(newTestSystem(t, 9, "rod", 8, 0)).Run(context.Background(), Config{Dt: 0.001, Steps: 200, SampleEvery: 50})
		if err != nil {
			t.Fatal(err)
		}
		return res.Final()
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed diverged:\n%+v\n%+v", a, b)
	}
}
