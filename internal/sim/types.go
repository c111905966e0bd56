package sim

import (
	"math"

	"github.com/san-kum/dynpoly/internal/assembly"
)

// Sample is a snapshot of the assembly state.
type Sample struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`

	Monomers    int     `json:"monomers"`
	Free        int     `json:"free"`
	Polymerized int     `json:"polymerized"`
	Chains      int     `json:"chains"`
	MeanChain   float64 `json:"mean_chain"`
	MaxChain    int     `json:"max_chain"`

	ATP   int `json:"atp"`
	ADPPi int `json:"adp_pi"`
	ADP   int `json:"adp"`

	BondEnergy    float64 `json:"bond_energy"`
	KineticEnergy float64 `json:"kinetic_energy"`

	// Totals are cumulative since the start of the run.
	Totals assembly.PassStats `json:"totals"`
}

// PolymerFraction is the share of monomers inside a chain.
func (s Sample) PolymerFraction() float64 {
	if s.Monomers == 0 {
		return 0
	}
	return float64(s.Polymerized) / float64(s.Monomers)
}

func (s Sample) IsValid() bool {
	for _, v := range []float64{s.Time, s.MeanChain, s.BondEnergy, s.KineticEnergy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(s Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Sample)

func (f ObserverFunc) OnSample(s Sample) { f(s) }

type Config struct {
	Dt          float64
	Steps       int
	SampleEvery int
	// ValidateState stops the run at the first non-finite bead position.
	ValidateState bool
}

type Result struct {
	Samples    []Sample           `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps_taken"`
	Totals     assembly.PassStats `json:"totals"`
}

// Final is the last sample, or the zero Sample.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

// Series extracts one value per sample.
func (r *Result) Series(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}
