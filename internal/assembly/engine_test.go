package assembly_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dynpoly/internal/assembly"
	"github.com/san-kum/dynpoly/internal/bond"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/particle"
)

type world struct {
	arena   *bond.Arena
	bonds   []*bond.ActiveBond
	rng     *rand.Rand
	species *bond.Species
}

// rods lays n two-bead ligand monomers along +x, one unit apart.
func rods(n int, species *bond.Species, bindAt, offHead, offTail float64) *world {
	w := &world{arena: bond.NewArena(), rng: rand.New(rand.NewSource(11)), species: species}
	builder := particle.NewBuilder()
	for i := 0; i < n; i++ {
		m := builder.Build(particle.Rod, dynamo.Vec3{X: float64(i)}, dynamo.Vec3{X: 1})
		b := bond.New(m, species, bond.NewLigand(m, bond.DefaultParams()),
			bond.NewProximityOn(bindAt, bindAt), bond.NewRateOff(w.rng, offHead, offTail))
		Expect(w.arena.Add(b)).To(BeTrue())
		w.bonds = append(w.bonds, b)
	}
	return w
}

func (w *world) chain() {
	for i := 0; i+1 < len(w.bonds); i++ {
		Expect(w.bonds[i].AddHeadAdjacentBond(w.bonds[i+1])).To(BeTrue())
	}
}

func ids(chain []*bond.ActiveBond) []bond.ID {
	out := make([]bond.ID, len(chain))
	for i, b := range chain {
		out[i] = b.ID()
	}
	return out
}

func expectConsistent(arena *bond.Arena) {
	for _, b := range arena.Bonds() {
		if h := b.HeadAdjacent(); h != nil {
			ExpectWithOffset(1, h.TailAdjacent()).To(BeIdenticalTo(b))
		}
		if t := b.TailAdjacent(); t != nil {
			ExpectWithOffset(1, t.HeadAdjacent()).To(BeIdenticalTo(b))
		}
		linked := b.HeadAdjacent() != nil || b.TailAdjacent() != nil
		ExpectWithOffset(1, b.Polymerized()).To(Equal(linked), "bond %d polymerized flag", b.ID())
		if limit := b.Species().MaxBonds; limit > 0 {
			ExpectWithOffset(1, b.ChainLength()-1).To(BeNumerically("<=", limit))
		}
	}
}

var _ = Describe("Engine", func() {
	Describe("BindingPass", func() {
		It("grows a chain from free monomers within reach", func() {
			w := rods(3, nil, 2, 0, 0)
			e := assembly.NewEngine(w.arena, w.rng)

			Expect(e.BindingPass()).To(Equal(2))

			chains := w.arena.Chains()
			Expect(chains).To(HaveLen(1))
			Expect(ids(chains[0])).To(Equal([]bond.ID{1, 0, 2}))
			expectConsistent(w.arena)
		})

		It("binds nothing out of reach", func() {
			w := rods(3, nil, 0.5, 0, 0)
			e := assembly.NewEngine(w.arena, w.rng)

			Expect(e.BindingPass()).To(BeZero())
			Expect(w.arena.Chains()).To(BeEmpty())
		})

		It("stops at the species bond limit", func() {
			w := rods(3, &bond.Species{Name: "cap", MaxBonds: 1}, 2, 0, 0)
			e := assembly.NewEngine(w.arena, w.rng)

			Expect(e.BindingPass()).To(Equal(1))
			Expect(w.bonds[2].Polymerized()).To(BeFalse())
			expectConsistent(w.arena)
		})

		It("skips pairs the source filters out", func() {
			w := rods(3, nil, 2, 0, 0)
			e := assembly.NewEngine(w.arena, w.rng, assembly.WithPairSource(assembly.ExhaustivePairs{Radius: 0.5}))

			Expect(e.BindingPass()).To(BeZero())
		})

		It("never joins two chains", func() {
			w := rods(4, nil, 10, 0, 0)
			Expect(w.bonds[0].AddHeadAdjacentBond(w.bonds[1])).To(BeTrue())
			Expect(w.bonds[2].AddHeadAdjacentBond(w.bonds[3])).To(BeTrue())
			e := assembly.NewEngine(w.arena, w.rng)

			Expect(e.BindingPass()).To(BeZero())
			Expect(w.arena.Chains()).To(HaveLen(2))
		})
	})

	Describe("UnbindingPass", func() {
		It("releases the head end and dissolves what is left", func() {
			w := rods(3, nil, 2, 1, 1)
			w.chain()
			e := assembly.NewEngine(w.arena, w.rng)

			unbound, dissolved := e.UnbindingPass()

			Expect(unbound).To(Equal(1))
			Expect(dissolved).To(Equal(1))
			Expect(w.arena.Chains()).To(BeEmpty())
			for _, b := range w.bonds {
				Expect(b.Polymerized()).To(BeFalse())
			}
			expectConsistent(w.arena)
		})

		It("trims both ends of a long chain", func() {
			w := rods(5, nil, 2, 1, 1)
			w.chain()
			e := assembly.NewEngine(w.arena, w.rng)

			unbound, dissolved := e.UnbindingPass()

			Expect(unbound).To(Equal(2))
			Expect(dissolved).To(BeZero())
			Expect(ids(w.arena.Chains()[0])).To(Equal([]bond.ID{1, 2, 3}))
			expectConsistent(w.arena)
		})

		It("dissolves a two-bond chain once", func() {
			w := rods(2, nil, 2, 1, 1)
			w.chain()
			e := assembly.NewEngine(w.arena, w.rng)

			unbound, dissolved := e.UnbindingPass()

			Expect(unbound).To(BeZero())
			Expect(dissolved).To(Equal(1))
		})

		It("keeps chains whose ends hold", func() {
			w := rods(4, nil, 2, 0, 0)
			w.chain()
			e := assembly.NewEngine(w.arena, w.rng)

			unbound, dissolved := e.UnbindingPass()
			Expect(unbound + dissolved).To(BeZero())
			Expect(w.arena.Chains()[0]).To(HaveLen(4))
		})

		It("never releases a severing species", func() {
			w := rods(3, &bond.Species{Name: "cofilin", Severing: true}, 2, 1, 1)
			w.chain()
			e := assembly.NewEngine(w.arena, w.rng)

			unbound, dissolved := e.UnbindingPass()
			Expect(unbound + dissolved).To(BeZero())
		})
	})

	Describe("KineticsPass", func() {
		var (
			kin *bond.Kinetics
			w   *world
		)

		BeforeEach(func() {
			kin = bond.NewKinetics()
			kin.SetATPHydrolysisProb(1)
			kin.SetADPReleasePiProb(1)
			kin.SetHeadBasalRate(0.1)
			kin.SetTailBasalRate(0.2)
			kin.SetMultipliers(bond.ADP, 2, 3)
			w = rods(4, &bond.Species{Name: "actin", Kinetics: kin}, 2, 0, 0)
		})

		It("runs the nucleotide cycle in order", func() {
			e := assembly.NewEngine(w.arena, w.rng)

			Expect(e.KineticsPass()).To(Equal(8))
			for _, b := range w.bonds {
				Expect(b.Nucleotide()).To(Equal(bond.ADP))
				rc := b.OffCondition().(bond.RateController)
				Expect(rc.HeadRate()).To(BeNumerically("~", 0.2, 1e-12))
				Expect(rc.TailRate()).To(BeNumerically("~", 0.6, 1e-12))
			}
		})

		It("ignores species without kinetics", func() {
			plain := rods(3, nil, 2, 0, 0)
			e := assembly.NewEngine(plain.arena, plain.rng)
			Expect(e.KineticsPass()).To(BeZero())
		})
	})

	Describe("ForcePass", func() {
		It("applies equal and opposite spring forces and resets every call", func() {
			w := rods(3, nil, 2, 0, 0)
			Expect(w.bonds[0].AddHeadAdjacentBond(w.bonds[1])).To(BeTrue())
			e := assembly.NewEngine(w.arena, w.rng)

			e.ForcePass()
			first := w.bonds[0].Monomer().Head().Force
			e.ForcePass()

			h0 := w.bonds[0].Monomer().Head().Force
			h1 := w.bonds[1].Monomer().Head().Force
			Expect(h0).To(Equal(first))
			Expect(h0.Norm()).To(BeNumerically(">", 0))
			Expect(h0.Add(h1).Norm()).To(BeNumerically("~", 0, 1e-12))
			Expect(w.bonds[2].Monomer().Head().Force).To(Equal(dynamo.Vec3{}))
			Expect(e.PotentialEnergy()).To(BeNumerically(">", 0))
		})
	})

	Describe("Step", func() {
		It("keeps the arena consistent under random churn", func() {
			rng := rand.New(rand.NewSource(5))
			arena := bond.NewArena()
			builder := particle.NewBuilder()
			species := &bond.Species{Name: "pair", MaxBonds: 3}
			for i := 0; i < 30; i++ {
				pos := dynamo.Vec3{X: rng.Float64() * 6, Y: rng.Float64() * 6, Z: rng.Float64() * 6}
				m := builder.Build(particle.Rod, pos, dynamo.Vec3{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: 1})
				b := bond.New(m, species, bond.NewLigand(m, bond.DefaultParams()),
					bond.NewProximityOn(1.5, 1.5), bond.NewRateOff(rng, 0.2, 0.2))
				Expect(arena.Add(b)).To(BeTrue())
			}
			e := assembly.NewEngine(arena, rng, assembly.WithPairSource(assembly.ExhaustivePairs{Radius: 3}))

			var sum assembly.PassStats
			for i := 0; i < 200; i++ {
				sum = sum.Add(e.Step())
				expectConsistent(arena)
			}
			Expect(e.Totals()).To(Equal(sum))
			Expect(sum.Bound).To(BeNumerically(">", 0))
			Expect(sum.Bound).To(BeNumerically(">=", sum.Unbound+sum.Dissolved))
		})
	})
})
