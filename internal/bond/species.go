package bond

// Species holds what all bonds of one monomer type share. Bonds keep a
// pointer and only read it.
type Species struct {
	Name string
	// MaxBonds caps the links in a chain this species joins; 0 is
	// unlimited.
	MaxBonds int
	// Severing bonds never release on their own.
	Severing bool
	// Kinetics is set for filament species with a nucleotide model.
	Kinetics *Kinetics
}

func (s *Species) allowsLinks(n int) bool {
	return s.MaxBonds <= 0 || n <= s.MaxBonds
}

// Nucleotide is the chemical state of a filament monomer.
type Nucleotide int

const (
	ATP Nucleotide = iota
	ADPPi
	ADP
	numNucleotides
)

func (n Nucleotide) String() string {
	switch n {
	case ATP:
		return "ATP"
	case ADPPi:
		return "ADP-Pi"
	case ADP:
		return "ADP"
	default:
		return "unknown"
	}
}

// Kinetics is the species-wide nucleotide model: transition
// probabilities per step, basal off-rates per end, and per-state
// multipliers. Setters ignore invalid values and keep the previous one.
type Kinetics struct {
	hydrolysis      float64
	releasePi       float64
	phosphorylation float64

	headBasal, tailBasal float64
	headMult, tailMult   [numNucleotides]float64
}

// NewKinetics returns a model with no transitions, zero basal rates and
// unit multipliers.
func NewKinetics() *Kinetics {
	k := &Kinetics{}
	for n := range k.headMult {
		k.headMult[n] = 1
		k.tailMult[n] = 1
	}
	return k
}

func (k *Kinetics) ATPHydrolysisProb() float64      { return k.hydrolysis }
func (k *Kinetics) ADPReleasePiProb() float64       { return k.releasePi }
func (k *Kinetics) ADPPhosphorylationProb() float64 { return k.phosphorylation }
func (k *Kinetics) HeadBasalRate() float64          { return k.headBasal }
func (k *Kinetics) TailBasalRate() float64          { return k.tailBasal }

func (k *Kinetics) SetATPHydrolysisProb(p float64) {
	if validProb(p) {
		k.hydrolysis = p
	}
}

func (k *Kinetics) SetADPReleasePiProb(p float64) {
	if validProb(p) {
		k.releasePi = p
	}
}

func (k *Kinetics) SetADPPhosphorylationProb(p float64) {
	if validProb(p) {
		k.phosphorylation = p
	}
}

func (k *Kinetics) SetHeadBasalRate(p float64) {
	if validProb(p) {
		k.headBasal = p
	}
}

func (k *Kinetics) SetTailBasalRate(p float64) {
	if validProb(p) {
		k.tailBasal = p
	}
}

// Multiplier returns the state multiplier for one end.
func (k *Kinetics) Multiplier(n Nucleotide, end End) float64 {
	if n < 0 || n >= numNucleotides {
		return 0
	}
	if end == EndTail {
		return k.tailMult[n]
	}
	return k.headMult[n]
}

// SetMultipliers sets both ends' multipliers for state n; negative values
// are ignored individually.
func (k *Kinetics) SetMultipliers(n Nucleotide, head, tail float64) {
	if n < 0 || n >= numNucleotides {
		return
	}
	if head >= 0 {
		k.headMult[n] = head
	}
	if tail >= 0 {
		k.tailMult[n] = tail
	}
}

// Rate is multiplier × basal rate for one end, capped at 1 so it is
// always a valid per-step probability.
func (k *Kinetics) Rate(n Nucleotide, end End) float64 {
	basal := k.headBasal
	if end == EndTail {
		basal = k.tailBasal
	}
	r := k.Multiplier(n, end) * basal
	if r > 1 {
		return 1
	}
	return r
}
