// Package metrics summarizes assembly runs sample by sample.
package metrics

import "github.com/san-kum/dynpoly/internal/sim"

// PolymerFraction is the share of monomers inside chains, averaged over
// all samples.
type PolymerFraction struct {
	name    string
	sum     float64
	samples int
}

func NewPolymerFraction() *PolymerFraction {
	return &PolymerFraction{name: "polymer_fraction"}
}

func (p *PolymerFraction) Name() string { return p.name }

func (p *PolymerFraction) Observe(s sim.Sample) {
	p.sum += s.PolymerFraction()
	p.samples++
}

func (p *PolymerFraction) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.sum / float64(p.samples)
}

func (p *PolymerFraction) Reset() {
	p.sum = 0
	p.samples = 0
}

// MeanChainLength averages the mean chain length over samples that had at
// least one chain.
type MeanChainLength struct {
	name    string
	sum     float64
	samples int
}

func NewMeanChainLength() *MeanChainLength {
	return &MeanChainLength{name: "mean_chain_length"}
}

func (m *MeanChainLength) Name() string { return m.name }

func (m *MeanChainLength) Observe(s sim.Sample) {
	if s.Chains == 0 {
		return
	}
	m.sum += s.MeanChain
	m.samples++
}

func (m *MeanChainLength) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanChainLength) Reset() {
	m.sum = 0
	m.samples = 0
}

// MaxChainLength is the longest chain seen in any sample.
type MaxChainLength struct {
	max int
}

func NewMaxChainLength() *MaxChainLength { return &MaxChainLength{} }

func (m *MaxChainLength) Name() string { return "max_chain_length" }

func (m *MaxChainLength) Observe(s sim.Sample) {
	if s.MaxChain > m.max {
		m.max = s.MaxChain
	}
}

func (m *MaxChainLength) Value() float64 { return float64(m.max) }
func (m *MaxChainLength) Reset()         { m.max = 0 }

// BondEnergy is the mean potential energy stored in connections and
// monomer skeletons.
type BondEnergy struct {
	name    string
	sum     float64
	samples int
}

func NewBondEnergy() *BondEnergy {
	return &BondEnergy{name: "bond_energy"}
}

func (b *BondEnergy) Name() string { return b.name }

func (b *BondEnergy) Observe(s sim.Sample) {
	b.sum += s.BondEnergy
	b.samples++
}

func (b *BondEnergy) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return b.sum / float64(b.samples)
}

func (b *BondEnergy) Reset() {
	b.sum = 0
	b.samples = 0
}

// Turnover counts links broken per link formed over the run.
type Turnover struct {
	last sim.Sample
}

func NewTurnover() *Turnover { return &Turnover{} }

func (t *Turnover) Name() string         { return "turnover" }
func (t *Turnover) Observe(s sim.Sample) { t.last = s }
func (t *Turnover) Reset()               { t.last = sim.Sample{} }

func (t *Turnover) Value() float64 {
	tot := t.last.Totals
	if tot.Bound == 0 {
		return 0
	}
	return float64(tot.Unbound+tot.Dissolved) / float64(tot.Bound)
}

// Defaults returns a fresh instance of every metric above.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewPolymerFraction(),
		NewMeanChainLength(),
		NewMaxChainLength(),
		NewBondEnergy(),
		NewTurnover(),
	}
}
