package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/integrators"
	"github.com/san-kum/dynpoly/internal/metrics"
	"github.com/san-kum/dynpoly/internal/sim"
	"github.com/san-kum/dynpoly/internal/species"
)

type Registry struct {
	integrators map[string]func(cfg *config.Config, rng dynamo.Rand) integrators.Integrator
	species     map[string]species.Definition
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(*config.Config, dynamo.Rand) integrators.Integrator),
		species:     make(map[string]species.Definition),
	}

	r.integrators["brownian"] = func(cfg *config.Config, rng dynamo.Rand) integrators.Integrator {
		b := integrators.NewBrownian(cfg.Friction, cfg.KT, rng)
		b.Box = integrators.NewBox(cfg.Box)
		return b
	}
	r.integrators["verlet"] = func(cfg *config.Config, _ dynamo.Rand) integrators.Integrator {
		v := integrators.NewVelocityVerlet()
		v.Box = integrators.NewBox(cfg.Box)
		return v
	}

	for _, name := range species.Names() {
		def, _ := species.Lookup(name)
		r.species[name] = def
	}

	return r
}

// RegisterSpecies adds or replaces a species definition.
func (r *Registry) RegisterSpecies(def species.Definition) {
	r.species[def.Name] = def
}

func (r *Registry) GetSpecies(name string) (species.Definition, error) {
	def, ok := r.species[name]
	if !ok {
		return species.Definition{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownSpecies, name)
	}
	return def, nil
}

func (r *Registry) GetIntegrator(name string, cfg *config.Config, rng dynamo.Rand) (integrators.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(cfg, rng), nil
}

func (r *Registry) ListSpecies() []string {
	names := make([]string, 0, len(r.species))
	for name := range r.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.Defaults()
}
