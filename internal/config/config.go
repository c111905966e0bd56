package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/physics"
	"github.com/san-kum/dynpoly/internal/species"
)

const (
	DefaultDt            = 0.0002
	DefaultSteps         = 10000
	DefaultSampleEvery   = 100
	DefaultKT            = 0.1
	DefaultFriction      = 1.0
	DefaultBox           = 12.0
	DefaultCaptureRadius = 3.0
	DefaultSkeleton      = 50.0
	DefaultLinkLength    = 1.0
)

type Config struct {
	Name          string             `yaml:"name,omitempty"`
	Integrator    string             `yaml:"integrator"`
	Dt            float64            `yaml:"dt"`
	Steps         int                `yaml:"steps"`
	SampleEvery   int                `yaml:"sample_every"`
	Seed          int64              `yaml:"seed"`
	KT            float64            `yaml:"kt"`
	Friction      float64            `yaml:"friction"`
	Box           float64            `yaml:"box"`
	CaptureRadius float64            `yaml:"capture_radius"`
	Skeleton      float64            `yaml:"skeleton_stiffness"`
	Connection    ConnectionConfig   `yaml:"connection"`
	Kinetics      KineticsConfig     `yaml:"kinetics"`
	Populations   []PopulationConfig `yaml:"populations"`
}

type ConnectionConfig struct {
	SpringConstant float64 `yaml:"spring_constant"`
	LinkLength     float64 `yaml:"link_length"`
	BendModulus    float64 `yaml:"bend_modulus"`
	PreferredAngle float64 `yaml:"preferred_angle"`
}

// PopulationConfig places Count monomers of one species. Zero thresholds
// keep the species defaults. Seed monomers are pre-assembled into one
// straight chain.
type PopulationConfig struct {
	Species     string  `yaml:"species"`
	Count       int     `yaml:"count"`
	Seed        int     `yaml:"seed_chain,omitempty"`
	BindHead    float64 `yaml:"bind_head,omitempty"`
	BindTail    float64 `yaml:"bind_tail,omitempty"`
	ReleaseHead float64 `yaml:"release_head,omitempty"`
	ReleaseTail float64 `yaml:"release_tail,omitempty"`
}

type MultiplierConfig struct {
	Head float64 `yaml:"head"`
	Tail float64 `yaml:"tail"`
}

type KineticsConfig struct {
	Hydrolysis      float64          `yaml:"atp_hydrolysis"`
	ReleasePi       float64          `yaml:"adp_release_pi"`
	Phosphorylation float64          `yaml:"adp_phosphorylation"`
	HeadBasal       float64          `yaml:"head_basal_rate"`
	TailBasal       float64          `yaml:"tail_basal_rate"`
	ATP             MultiplierConfig `yaml:"atp"`
	ADPPi           MultiplierConfig `yaml:"adp_pi"`
	ADP             MultiplierConfig `yaml:"adp"`
}

func DefaultKinetics() KineticsConfig {
	k := species.DefaultKinetics()
	mult := func(n bond.Nucleotide) MultiplierConfig {
		return MultiplierConfig{Head: k.Multiplier(n, bond.EndHead), Tail: k.Multiplier(n, bond.EndTail)}
	}
	return KineticsConfig{
		Hydrolysis:      k.ATPHydrolysisProb(),
		ReleasePi:       k.ADPReleasePiProb(),
		Phosphorylation: k.ADPPhosphorylationProb(),
		HeadBasal:       k.HeadBasalRate(),
		TailBasal:       k.TailBasalRate(),
		ATP:             mult(bond.ATP),
		ADPPi:           mult(bond.ADPPi),
		ADP:             mult(bond.ADP),
	}
}

// Build converts the section into the species-wide model.
func (k KineticsConfig) Build() *bond.Kinetics {
	out := bond.NewKinetics()
	out.SetATPHydrolysisProb(k.Hydrolysis)
	out.SetADPReleasePiProb(k.ReleasePi)
	out.SetADPPhosphorylationProb(k.Phosphorylation)
	out.SetHeadBasalRate(k.HeadBasal)
	out.SetTailBasalRate(k.TailBasal)
	out.SetMultipliers(bond.ATP, k.ATP.Head, k.ATP.Tail)
	out.SetMultipliers(bond.ADPPi, k.ADPPi.Head, k.ADPPi.Tail)
	out.SetMultipliers(bond.ADP, k.ADP.Head, k.ADP.Tail)
	return out
}

func (c ConnectionConfig) Params() bond.Params {
	return bond.Params{
		SpringConstant: c.SpringConstant,
		LinkLength:     c.LinkLength,
		BendModulus:    c.BendModulus,
		PreferredAngle: c.PreferredAngle,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:    "brownian",
		Dt:            DefaultDt,
		Steps:         DefaultSteps,
		SampleEvery:   DefaultSampleEvery,
		Seed:          1,
		KT:            DefaultKT,
		Friction:      DefaultFriction,
		Box:           DefaultBox,
		CaptureRadius: DefaultCaptureRadius,
		Skeleton:      DefaultSkeleton,
		Connection: ConnectionConfig{
			SpringConstant: physics.DefaultSpringConstant,
			LinkLength:     DefaultLinkLength,
			BendModulus:    physics.DefaultBendModulus,
		},
		Kinetics: DefaultKinetics(),
		Populations: []PopulationConfig{
			{Species: "factin", Count: 40},
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Populations = append([]PopulationConfig(nil), c.Populations...)
	return &cp
}

// Monomers is the total population size.
func (c *Config) Monomers() int {
	n := 0
	for _, p := range c.Populations {
		n += p.Count
	}
	return n
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Populations = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Populations) == 0 {
		cfg.Populations = DefaultConfig().Populations
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first out-of-range field.
func (c *Config) Validate() error {
	bounds := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...)
	}
	switch {
	case c.Dt <= 0:
		return bounds("dt must be positive, got %g", c.Dt)
	case c.Steps <= 0:
		return bounds("steps must be positive, got %d", c.Steps)
	case c.SampleEvery <= 0:
		return bounds("sample_every must be positive, got %d", c.SampleEvery)
	case c.KT < 0:
		return bounds("kt must not be negative, got %g", c.KT)
	case c.Friction <= 0:
		return bounds("friction must be positive, got %g", c.Friction)
	case c.Box <= 0:
		return bounds("box must be positive, got %g", c.Box)
	case c.CaptureRadius < 0:
		return bounds("capture_radius must not be negative, got %g", c.CaptureRadius)
	case c.Skeleton < 0:
		return bounds("skeleton_stiffness must not be negative, got %g", c.Skeleton)
	case c.Connection.SpringConstant < 0 || c.Connection.LinkLength < 0 || c.Connection.BendModulus < 0:
		return bounds("connection parameters must not be negative")
	}
	if err := c.Kinetics.validate(); err != nil {
		return err
	}
	if len(c.Populations) == 0 {
		return bounds("at least one population is required")
	}
	for i, p := range c.Populations {
		if _, err := species.Lookup(p.Species); err != nil {
			return fmt.Errorf("population %d: %w", i, err)
		}
		if p.Count <= 0 {
			return bounds("population %d: count must be positive, got %d", i, p.Count)
		}
		if p.Seed < 0 || p.Seed > p.Count {
			return bounds("population %d: seed_chain must be within [0, %d], got %d", i, p.Count, p.Seed)
		}
		if p.BindHead < 0 || p.BindTail < 0 || p.ReleaseHead < 0 || p.ReleaseTail < 0 {
			return bounds("population %d: thresholds must not be negative", i)
		}
	}
	return nil
}

func (k KineticsConfig) validate() error {
	probs := map[string]float64{
		"atp_hydrolysis":      k.Hydrolysis,
		"adp_release_pi":      k.ReleasePi,
		"adp_phosphorylation": k.Phosphorylation,
		"head_basal_rate":     k.HeadBasal,
		"tail_basal_rate":     k.TailBasal,
	}
	for _, name := range []string{"atp_hydrolysis", "adp_release_pi", "adp_phosphorylation", "head_basal_rate", "tail_basal_rate"} {
		if p := probs[name]; p < 0 || p > 1 {
			return fmt.Errorf("%w: kinetics %s must be within [0, 1], got %g", dynamo.ErrParameterBounds, name, p)
		}
	}
	for _, m := range []MultiplierConfig{k.ATP, k.ADPPi, k.ADP} {
		if m.Head < 0 || m.Tail < 0 {
			return fmt.Errorf("%w: kinetics multipliers must not be negative", dynamo.ErrParameterBounds)
		}
	}
	return nil
}
