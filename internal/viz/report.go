package viz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dynpoly/internal/sim"
	"github.com/san-kum/dynpoly/internal/storage"
)

var ErrUnknownField = errors.New("viz: unknown sample field")

var fields = map[string]func(sim.Sample) float64{
	"polymer_fraction": sim.Sample.PolymerFraction,
	"free":             func(s sim.Sample) float64 { return float64(s.Free) },
	"chains":           func(s sim.Sample) float64 { return float64(s.Chains) },
	"mean_chain":       func(s sim.Sample) float64 { return s.MeanChain },
	"max_chain":        func(s sim.Sample) float64 { return float64(s.MaxChain) },
	"atp":              func(s sim.Sample) float64 { return float64(s.ATP) },
	"adp_pi":           func(s sim.Sample) float64 { return float64(s.ADPPi) },
	"adp":              func(s sim.Sample) float64 { return float64(s.ADP) },
	"bond_energy":      func(s sim.Sample) float64 { return s.BondEnergy },
	"kinetic_energy":   func(s sim.Sample) float64 { return s.KineticEnergy },
}

// Fields lists the plottable sample fields.
func Fields() []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Series extracts the named field from every sample.
func Series(samples []sim.Sample, field string) ([]float64, error) {
	f, ok := fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out, nil
}

// Plot draws one field over the run as an ASCII chart.
func Plot(samples []sim.Sample, field string, width, height int) (string, error) {
	ys, err := Series(samples, field)
	if err != nil {
		return "", err
	}
	if len(ys) == 0 {
		return "", fmt.Errorf("viz: no samples to plot")
	}
	return asciigraph.Plot(ys,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(field),
	), nil
}

// RunTable lists stored runs, newest first as given.
func RunTable(runs []storage.RunMetadata) string {
	var b strings.Builder
	b.WriteString(tableHeader.Render(fmt.Sprintf("%-36s  %-20s  %-16s  %8s  %6s", "ID", "NAME", "CREATED", "STEPS", "SEED")))
	b.WriteByte('\n')
	for _, r := range runs {
		fmt.Fprintf(&b, "%-36s  %-20s  %-16s  %8d  %6d\n",
			r.ID, truncate(r.Name, 20), r.Timestamp.Format("2006-01-02 15:04"), r.Steps, r.Seed)
	}
	return b.String()
}

// Summary renders the final sample and end-of-run metrics of res.
func Summary(name string, res *sim.Result) string {
	var b strings.Builder
	b.WriteString(tableHeader.Render(name))
	b.WriteByte('\n')
	if res == nil {
		return b.String()
	}
	f := res.Final()
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("steps", fmt.Sprintf("%d", res.StepsTaken))
	row("time", fmt.Sprintf("%.4f", f.Time))
	row("monomers", fmt.Sprintf("%d (%d free)", f.Monomers, f.Free))
	row("chains", fmt.Sprintf("%d mean %.2f max %d", f.Chains, f.MeanChain, f.MaxChain))
	row("polymerized", fmt.Sprintf("%.1f%% %s", 100*f.PolymerFraction(), ProgressBar(f.PolymerFraction(), 20)))
	row("nucleotides", fmt.Sprintf("ATP %d ADP-Pi %d ADP %d", f.ATP, f.ADPPi, f.ADP))
	row("links", fmt.Sprintf("+%d -%d dissolved %d", res.Totals.Bound, res.Totals.Unbound, res.Totals.Dissolved))

	if len(res.Metrics) > 0 {
		keys := make([]string, 0, len(res.Metrics))
		for k := range res.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n" + subtle.Render("metrics") + "\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "%-24s %.4f\n", k, res.Metrics[k])
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
