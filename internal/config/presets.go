package config

import "sort"

func preset(name, integrator string, steps int, pops ...PopulationConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Integrator = integrator
	cfg.Steps = steps
	cfg.Populations = pops
	return cfg
}

// Presets holds ready-made scenarios grouped by family.
var Presets = map[string]map[string]*Config{
	"actin": {
		"nucleation": preset("actin/nucleation", "brownian", 5000,
			PopulationConfig{Species: "factin", Count: 40}),
		"seeded": preset("actin/seeded", "brownian", 8000,
			PopulationConfig{Species: "factin", Count: 60, Seed: 8}),
		"capped": preset("actin/capped", "brownian", 8000,
			PopulationConfig{Species: "factin", Count: 40, Seed: 6},
			PopulationConfig{Species: "formin", Count: 4}),
		"severing": preset("actin/severing", "brownian", 8000,
			PopulationConfig{Species: "factin", Count: 40, Seed: 10},
			PopulationConfig{Species: "cofilin", Count: 6}),
	},
	"receptor": {
		"pairing": preset("receptor/pairing", "brownian", 4000,
			PopulationConfig{Species: "receptor", Count: 20},
			PopulationConfig{Species: "ligand", Count: 20}),
		"crowded": preset("receptor/crowded", "brownian", 4000,
			PopulationConfig{Species: "receptor", Count: 40},
			PopulationConfig{Species: "ligand", Count: 80}),
	},
	"formin": {
		"contact": preset("formin/contact", "brownian", 3000,
			PopulationConfig{Species: "formin", Count: 10},
			PopulationConfig{Species: "factin", Count: 30}),
	},
	"generic": {
		"rods": preset("generic/rods", "verlet", 3000,
			PopulationConfig{Species: "rod", Count: 50}),
		"prisms": preset("generic/prisms", "brownian", 5000,
			PopulationConfig{Species: "prism", Count: 30, Seed: 5}),
	},
}

// GetPreset returns a copy of the named scenario, or nil.
func GetPreset(family, name string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListFamilies() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
