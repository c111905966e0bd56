package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/dynpoly/internal/sim"
)

var csvHeader = []string{
	"step", "time", "monomers", "free", "polymerized", "chains", "mean_chain", "max_chain",
	"atp", "adp_pi", "adp", "bond_energy", "kinetic_energy",
	"bound", "unbound", "dissolved", "transitions",
}

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step), ff(s.Time),
			strconv.Itoa(s.Monomers), strconv.Itoa(s.Free), strconv.Itoa(s.Polymerized),
			strconv.Itoa(s.Chains), ff(s.MeanChain), strconv.Itoa(s.MaxChain),
			strconv.Itoa(s.ATP), strconv.Itoa(s.ADPPi), strconv.Itoa(s.ADP),
			ff(s.BondEnergy), ff(s.KineticEnergy),
			strconv.Itoa(s.Totals.Bound), strconv.Itoa(s.Totals.Unbound),
			strconv.Itoa(s.Totals.Dissolved), strconv.Itoa(s.Totals.Transitions),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes the stored samples of run id.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer, id string) error {
	samples, err := s.LoadSamples(ctx, id)
	if err != nil {
		return err
	}
	return WriteCSV(w, samples)
}

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes metadata and samples of run id as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer, id string) error {
	meta, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: samples})
}
