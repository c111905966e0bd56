package assembly

import (
	"go.uber.org/zap"

	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
)

// PassStats counts what the passes of one step, or a whole run, did.
type PassStats struct {
	Bound       int
	Unbound     int
	Dissolved   int
	Transitions int
}

func (s PassStats) Add(o PassStats) PassStats {
	return PassStats{
		Bound:       s.Bound + o.Bound,
		Unbound:     s.Unbound + o.Unbound,
		Dissolved:   s.Dissolved + o.Dissolved,
		Transitions: s.Transitions + o.Transitions,
	}
}

// TopologyChanged reports whether any link was made or broken.
func (s PassStats) TopologyChanged() bool {
	return s.Bound+s.Unbound+s.Dissolved > 0
}

type Engine struct {
	arena  *bond.Arena
	pairs  PairSource
	rng    dynamo.Rand
	logger *zap.Logger
	total  PassStats
	steps  int
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithPairSource(p PairSource) Option {
	return func(e *Engine) {
		if p != nil {
			e.pairs = p
		}
	}
}

// NewEngine drives arena with rng for the kinetic draws. Without options
// it considers all pairs and does not log.
func NewEngine(arena *bond.Arena, rng dynamo.Rand, opts ...Option) *Engine {
	e := &Engine{
		arena:  arena,
		pairs:  ExhaustivePairs{},
		rng:    rng,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Arena() *bond.Arena { return e.arena }

// Totals is the sum of all steps run so far.
func (e *Engine) Totals() PassStats { return e.total }

// Step runs unbinding, binding and kinetics once.
func (e *Engine) Step() PassStats {
	var s PassStats
	s.Unbound, s.Dissolved = e.UnbindingPass()
	s.Bound = e.BindingPass()
	s.Transitions = e.KineticsPass()
	e.total = e.total.Add(s)
	e.steps++
	if s.TopologyChanged() {
		e.logger.Debug("topology changed",
			zap.Int("step", e.steps),
			zap.Int("bound", s.Bound),
			zap.Int("unbound", s.Unbound),
			zap.Int("dissolved", s.Dissolved),
		)
	}
	return s
}

// receiver picks which bond of a pair evaluates the on-condition: the one
// already in a chain, or the first when both are free. Two polymerized
// bonds never bind.
func receiver(p Pair) (recv, target *bond.ActiveBond, ok bool) {
	switch {
	case p.A.Polymerized() && p.B.Polymerized():
		return nil, nil, false
	case p.B.Polymerized():
		return p.B, p.A, true
	default:
		return p.A, p.B, true
	}
}

// BindingPass links every accepted candidate pair and returns the number
// of new links.
func (e *Engine) BindingPass() int {
	bound := 0
	for _, p := range e.pairs.Pairs(e.arena.Bonds()) {
		recv, target, ok := receiver(p)
		if !ok || recv.HeadAdjacent() == target || recv.TailAdjacent() == target {
			continue
		}
		end, ok := recv.ActivateEnd(target)
		if !ok {
			continue
		}
		var linked bool
		switch end {
		case bond.EndTail:
			linked = recv.AddTailAdjacentBond(target)
		case bond.EndHead:
			linked = recv.AddHeadAdjacentBond(target)
		}
		if linked {
			bound++
		}
	}
	return bound
}

// UnbindingPass evaluates the off-condition of every chain end, using a
// snapshot of the chains taken before any release. It returns the number
// of single bonds released and of two-bond chains dissolved.
func (e *Engine) UnbindingPass() (unbound, dissolved int) {
	for _, chain := range e.arena.Chains() {
		for _, b := range []*bond.ActiveBond{chain[len(chain)-1], chain[0]} {
			if !b.Polymerized() {
				continue
			}
			end, ok := b.DeactivateEnd()
			if !ok {
				continue
			}
			if b.ChainLength() == 2 {
				if b.DissolveFromHead() {
					dissolved++
				}
				continue
			}
			if release(b, end) {
				unbound++
			}
		}
	}
	return unbound, dissolved
}

// release detaches chain end b at its occupied end.
func release(b *bond.ActiveBond, end bond.End) bool {
	switch end {
	case bond.EndTail:
		if t := b.TailAdjacent(); t != nil {
			return t.RemoveHeadAdjacentBond()
		}
	case bond.EndHead:
		if h := b.HeadAdjacent(); h != nil {
			return h.RemoveTailAdjacentBond()
		}
	}
	return false
}

// KineticsPass runs Hydrolyse, ReleasePi and Phosphorylate once on every
// bond whose species carries a nucleotide model. It returns the number of
// state transitions.
func (e *Engine) KineticsPass() int {
	n := 0
	for _, b := range e.arena.Bonds() {
		if b.Species().Kinetics == nil {
			continue
		}
		if b.Hydrolyse(e.rng) {
			n++
		}
		if b.ReleasePi(e.rng) {
			n++
		}
		if b.Phosphorylate(e.rng) {
			n++
		}
	}
	return n
}

// ForcePass clears every bead force and applies all connection forces.
func (e *Engine) ForcePass() {
	bonds := e.arena.Bonds()
	for _, b := range bonds {
		b.Monomer().ResetForces()
	}
	for _, b := range bonds {
		b.AddForce()
	}
	for _, b := range bonds {
		b.AddThreeBodyForce()
	}
}

// PotentialEnergy sums the connection energies of all bonds.
func (e *Engine) PotentialEnergy() float64 {
	u := 0.0
	for _, b := range e.arena.Bonds() {
		u += b.PotentialEnergy()
	}
	return u
}
