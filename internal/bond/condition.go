package bond

import (
	"github.com/san-kum/dynpoly/internal/dynamo"
)

// OnCondition decides whether a free candidate may bind to a bond. self is
// the receiving bond; candidate is unpolymerized.
type OnCondition interface {
	// HeadOn tests candidate attaching in front of self.
	HeadOn(self, candidate *ActiveBond) bool
	// TailOn tests candidate attaching behind self.
	TailOn(self, candidate *ActiveBond) bool
	SetPhantom(phantom bool)
	IsPhantom() bool
}

// OffCondition decides whether a bond may separate at one end.
type OffCondition interface {
	HeadOff(self *ActiveBond) bool
	TailOff(self *ActiveBond) bool
}

// RateController is implemented by off-conditions whose per-step release
// probabilities are driven by nucleotide kinetics.
type RateController interface {
	SetHeadRate(p float64)
	SetTailRate(p float64)
	HeadRate() float64
	TailRate() float64
}

// headGap is the squared distance between self's head anchor and other's
// tail anchor: the junction if other sits in front of self.
func headGap(self, other *ActiveBond) float64 {
	return dynamo.DistSq(self.Monomer().Head().Pos, other.Monomer().Tail().Pos)
}

// tailGap is the junction distance if other sits behind self.
func tailGap(self, other *ActiveBond) float64 {
	return dynamo.DistSq(self.Monomer().Tail().Pos, other.Monomer().Head().Pos)
}

// ProximityOn admits a candidate whose junction bead lies within the
// end's capture distance.
type ProximityOn struct {
	maxHead, maxTail float64
	phantom          bool
}

func NewProximityOn(maxHead, maxTail float64) *ProximityOn {
	c := &ProximityOn{}
	c.SetMaxHeadSeparation(maxHead)
	c.SetMaxTailSeparation(maxTail)
	return c
}

func (c *ProximityOn) HeadOn(self, candidate *ActiveBond) bool {
	return headGap(self, candidate) <= c.maxHead*c.maxHead
}

func (c *ProximityOn) TailOn(self, candidate *ActiveBond) bool {
	return tailGap(self, candidate) <= c.maxTail*c.maxTail
}

func (c *ProximityOn) SetPhantom(phantom bool) { c.phantom = phantom }
func (c *ProximityOn) IsPhantom() bool         { return c.phantom }

func (c *ProximityOn) MaxHeadSeparation() float64 { return c.maxHead }
func (c *ProximityOn) MaxTailSeparation() float64 { return c.maxTail }

func (c *ProximityOn) SetMaxHeadSeparation(d float64) {
	if d >= 0 {
		c.maxHead = d
	}
}

func (c *ProximityOn) SetMaxTailSeparation(d float64) {
	if d >= 0 {
		c.maxTail = d
	}
}

// RateOff releases with a fixed probability per evaluation.
type RateOff struct {
	rng              dynamo.Rand
	headProb, tailProb float64
}

func NewRateOff(rng dynamo.Rand, headProb, tailProb float64) *RateOff {
	c := &RateOff{rng: rng}
	c.SetHeadRate(headProb)
	c.SetTailRate(tailProb)
	return c
}

func (c *RateOff) HeadOff(*ActiveBond) bool { return dynamo.Bernoulli(c.rng, c.headProb) }
func (c *RateOff) TailOff(*ActiveBond) bool { return dynamo.Bernoulli(c.rng, c.tailProb) }

func (c *RateOff) HeadRate() float64 { return c.headProb }
func (c *RateOff) TailRate() float64 { return c.tailProb }

// SetHeadRate ignores values outside [0, 1].
func (c *RateOff) SetHeadRate(p float64) {
	if validProb(p) {
		c.headProb = p
	}
}

func (c *RateOff) SetTailRate(p float64) {
	if validProb(p) {
		c.tailProb = p
	}
}

// Release selects which side of the threshold ProximityOff fires on.
type Release int

const (
	// ReleaseBeyond fires once the junction is stretched past the
	// threshold.
	ReleaseBeyond Release = iota
	// ReleaseWithin fires once the junction is pushed inside the
	// threshold; processive cappers hand off this way.
	ReleaseWithin
)

// ProximityOff releases on junction separation.
type ProximityOff struct {
	maxHead, maxTail float64
	mode             Release
}

func NewProximityOff(maxHead, maxTail float64) *ProximityOff {
	c := &ProximityOff{}
	c.SetMaxHeadSeparation(maxHead)
	c.SetMaxTailSeparation(maxTail)
	return c
}

// NewContactOff is a ProximityOff that fires inside the threshold.
func NewContactOff(maxHead, maxTail float64) *ProximityOff {
	c := NewProximityOff(maxHead, maxTail)
	c.mode = ReleaseWithin
	return c
}

func (c *ProximityOff) HeadOff(self *ActiveBond) bool {
	h := self.HeadAdjacent()
	if h == nil {
		return false
	}
	return c.fires(headGap(self, h), c.maxHead)
}

func (c *ProximityOff) TailOff(self *ActiveBond) bool {
	t := self.TailAdjacent()
	if t == nil {
		return false
	}
	return c.fires(tailGap(self, t), c.maxTail)
}

func (c *ProximityOff) fires(gapSq, limit float64) bool {
	if c.mode == ReleaseWithin {
		return gapSq <= limit*limit
	}
	return gapSq >= limit*limit
}

func (c *ProximityOff) Mode() Release              { return c.mode }
func (c *ProximityOff) MaxHeadSeparation() float64 { return c.maxHead }
func (c *ProximityOff) MaxTailSeparation() float64 { return c.maxTail }

func (c *ProximityOff) SetMaxHeadSeparation(d float64) {
	if d >= 0 {
		c.maxHead = d
	}
}

func (c *ProximityOff) SetMaxTailSeparation(d float64) {
	if d >= 0 {
		c.maxTail = d
	}
}

func validProb(p float64) bool {
	return p >= 0 && p <= 1
}
