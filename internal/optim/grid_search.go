package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/dynpoly/internal/config"
	"github.com/san-kum/dynpoly/internal/dynamo"
	"github.com/san-kum/dynpoly/internal/experiment"
	"github.com/san-kum/dynpoly/internal/sim"
	"go.uber.org/zap"
)

// Setters maps sweepable parameter names onto the config fields they set.
var Setters = map[string]func(*config.Config, float64){
	"kt":              func(c *config.Config, v float64) { c.KT = v },
	"friction":        func(c *config.Config, v float64) { c.Friction = v },
	"dt":              func(c *config.Config, v float64) { c.Dt = v },
	"capture_radius":  func(c *config.Config, v float64) { c.CaptureRadius = v },
	"skeleton":        func(c *config.Config, v float64) { c.Skeleton = v },
	"spring":          func(c *config.Config, v float64) { c.Connection.SpringConstant = v },
	"hydrolysis":      func(c *config.Config, v float64) { c.Kinetics.Hydrolysis = v },
	"release_pi":      func(c *config.Config, v float64) { c.Kinetics.ReleasePi = v },
	"phosphorylation": func(c *config.Config, v float64) { c.Kinetics.Phosphorylation = v },
	"bind_head": func(c *config.Config, v float64) {
		for i := range c.Populations {
			c.Populations[i].BindHead = v
		}
	},
	"bind_tail": func(c *config.Config, v float64) {
		for i := range c.Populations {
			c.Populations[i].BindTail = v
		}
	},
}

func SetterNames() []string {
	names := make([]string, 0, len(Setters))
	for k := range Setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Param is one swept axis.
type Param struct {
	Name   string
	Values []float64
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(s string) (Param, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return Param{}, fmt.Errorf("param %q: want name=v1,v2", s)
	}
	if _, ok := Setters[name]; !ok {
		return Param{}, fmt.Errorf("%w: unknown sweep param %q (available: %v)", dynamo.ErrParameterBounds, name, SetterNames())
	}
	p := Param{Name: name}
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Param{}, fmt.Errorf("param %s: %w", name, err)
		}
		p.Values = append(p.Values, v)
	}
	return p, nil
}

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

// Objective scores a finished run; larger is better when maximizing.
type Objective func(*sim.Result) (float64, error)

// MetricObjective reads a named end-of-run metric.
func MetricObjective(name string) Objective {
	return func(r *sim.Result) (float64, error) {
		v, ok := r.Metrics[name]
		if !ok {
			return 0, fmt.Errorf("run has no metric %q", name)
		}
		return v, nil
	}
}

type GridSearch struct {
	params   []Param
	maximize bool
	logger   *zap.Logger
}

func NewGridSearch(params []Param, maximize bool, logger *zap.Logger) *GridSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{params: params, maximize: maximize, logger: logger}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Search runs one experiment per grid point on a copy of base and
// returns the best point and every evaluated point in grid order.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, objective Objective) (Point, []Point, error) {
	for _, p := range g.params {
		if _, ok := Setters[p.Name]; !ok {
			return Point{}, nil, fmt.Errorf("%w: unknown sweep param %q", dynamo.ErrParameterBounds, p.Name)
		}
	}
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	best := Point{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}
	var all []Point
	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(current map[string]float64) error {
		cfg := base.Clone()
		for name, v := range current {
			Setters[name](cfg, v)
		}
		exp := experiment.New(cfg, registry, g.logger)
		if err := exp.Setup(cfg.Seed, registry.DefaultMetrics()); err != nil {
			return fmt.Errorf("grid point %v: %w", current, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return fmt.Errorf("grid point %v: %w", current, err)
		}
		val, err := objective(res)
		if err != nil {
			return err
		}
		pt := Point{Params: current, Value: val}
		all = append(all, pt)
		if (g.maximize && val > best.Value) || (!g.maximize && val < best.Value) {
			best = pt
		}
		g.logger.Debug("grid point", zap.Any("params", current), zap.Float64("value", val))
		return nil
	})
	if err != nil {
		return Point{}, all, err
	}
	return best, all, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.params) {
		return eval(current)
	}
	p := g.params[depth]
	for _, v := range p.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[p.Name] = v
		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}
