package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/dynpoly/internal/dynamo"
)

type Simulator struct {
	sys       *System
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

func New(sys *System) *Simulator {
	return &Simulator{
		sys:       sys,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) System() *System        { return s.sys }

func (s *Simulator) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Run steps the system cfg.Steps times, sampling at step 0, every
// cfg.SampleEvery steps and at the end. On cancellation it returns the
// samples taken so far with the context error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	s.record(result, s.sys.Sample(0, 0))

	t := 0.0
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("step %d: %w: %w", i, dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		s.sys.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState && !s.sys.Valid() {
			s.finish(result)
			return result, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		if i%cfg.SampleEvery == 0 || i == cfg.Steps {
			s.record(result, s.sys.Sample(i, t))
		}
	}

	s.finish(result)
	final := result.Final()
	s.logger.Info("run complete",
		zap.Int("steps", result.StepsTaken),
		zap.Int("chains", final.Chains),
		zap.Int("max_chain", final.MaxChain),
		zap.Float64("polymer_fraction", final.PolymerFraction()),
	)
	return result, nil
}

func (s *Simulator) record(r *Result, sample Sample) {
	r.Samples = append(r.Samples, sample)
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, o := range s.observers {
		o.OnSample(sample)
	}
	s.logger.Debug("sample",
		zap.Int("step", sample.Step),
		zap.Int("free", sample.Free),
		zap.Int("chains", sample.Chains),
		zap.Float64("bond_energy", sample.BondEnergy),
	)
}

func (s *Simulator) finish(r *Result) {
	r.Totals = s.sys.Engine().Totals()
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps until cfg.Steps or until callback returns false.
// The callback sees every cfg.SampleEvery-th sample.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	if !callback(s.sys.Sample(0, t)) {
		return nil
	}
	for i := 1; i <= cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("step %d: %w: %w", i, dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		s.sys.Step(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !s.sys.Valid() {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		if i%cfg.SampleEvery == 0 && !callback(s.sys.Sample(i, t)) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", dynamo.ErrParameterBounds, cfg.SampleEvery)
	}
	return nil
}
