package sim

import (
	"context"
	"errors"
	"testing"
)

func TestEnsembleRun(t *testing.T) {
	build := func(seed int64) (*Simulator, error) {
		return New(newTestSystem(t, seed, "rod", 6, 0)), nil
	}
	cfg := Config{Dt: 0.001, Steps: 100, SampleEvery: 20}

	results, err := NewEnsemble(build, 4, 10).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	again, err := New(newTestSystem(t, 12, "rod", 6, 0)).Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if results[2].Final() != again.Final() {
		t.Errorf("ensemble member 2 does not match a lone run with seed 12")
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func(seed int64) (*Simulator, error) {
		if seed == 3 {
			return nil, boom
		}
		return New(newTestSystem(t, seed, "rod", 2, 0)), nil
	}

	e := NewEnsemble(build, 5, 0)
	e.SetLimit(2)
	_, err := e.Run(context.Background(), Config{Dt: 0.001, Steps: 10, SampleEvery: 5})
	if !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}
