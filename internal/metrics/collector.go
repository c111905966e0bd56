package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/sim"
)

const namespace = "dynpoly"

// Collector exports samples as Prometheus series on its own registry. It
// is a sim.Observer; counters advance by the growth of the cumulative
// pass totals between samples.
type Collector struct {
	registry *prometheus.Registry

	free        prometheus.Gauge
	chains      prometheus.Gauge
	meanChain   prometheus.Gauge
	maxChain    prometheus.Gauge
	bondEnergy  prometheus.Gauge
	nucleotides *prometheus.GaugeVec

	formed      prometheus.Counter
	released    *prometheus.CounterVec
	transitions prometheus.Counter
	samples     prometheus.Counter

	last assembly.PassStats
}

// NewCollector labels every series with run.
func NewCollector(run string) *Collector {
	labels := prometheus.Labels{"run": run}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}

	c := &Collector{
		registry:   prometheus.NewRegistry(),
		free:       gauge("free_monomers", "Monomers outside any chain."),
		chains:     gauge("chains", "Chains of two or more monomers."),
		meanChain:  gauge("mean_chain_length", "Mean monomers per chain."),
		maxChain:   gauge("max_chain_length", "Longest chain."),
		bondEnergy: gauge("bond_energy", "Potential energy in connections and skeletons."),
		nucleotides: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "nucleotides", Help: "Filament monomers per nucleotide state.", ConstLabels: labels,
		}, []string{"state"}),
		formed: counter("links_formed_total", "Links made by the binding pass."),
		released: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "links_released_total", Help: "Links broken by the unbinding pass.", ConstLabels: labels,
		}, []string{"kind"}),
		transitions: counter("nucleotide_transitions_total", "Nucleotide state changes."),
		samples:     counter("samples_total", "Samples observed."),
	}
	c.registry.MustRegister(
		c.free, c.chains, c.meanChain, c.maxChain, c.bondEnergy, c.nucleotides,
		c.formed, c.released, c.transitions, c.samples,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) OnSample(s sim.Sample) {
	c.free.Set(float64(s.Free))
	c.chains.Set(float64(s.Chains))
	c.meanChain.Set(s.MeanChain)
	c.maxChain.Set(float64(s.MaxChain))
	c.bondEnergy.Set(s.BondEnergy)
	c.nucleotides.WithLabelValues("atp").Set(float64(s.ATP))
	c.nucleotides.WithLabelValues("adp_pi").Set(float64(s.ADPPi))
	c.nucleotides.WithLabelValues("adp").Set(float64(s.ADP))

	d := s.Totals
	if d.Bound >= c.last.Bound {
		c.formed.Add(float64(d.Bound - c.last.Bound))
	}
	if d.Unbound >= c.last.Unbound {
		c.released.WithLabelValues("unbound").Add(float64(d.Unbound - c.last.Unbound))
	}
	if d.Dissolved >= c.last.Dissolved {
		c.released.WithLabelValues("dissolved").Add(float64(d.Dissolved - c.last.Dissolved))
	}
	if d.Transitions >= c.last.Transitions {
		c.transitions.Add(float64(d.Transitions - c.last.Transitions))
	}
	c.last = d
	c.samples.Inc()
}
