package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/experiment"
)

var ErrNoTrials = errors.New("optim: no valid parameter combination")

// Params are the tunable configuration values, by name.
var Params = map[string]func(c *config.Config, v float64){
	"spin_velocity":      func(c *config.Config, v float64) { c.Top.SpinVelocity = v },
	"push_force":         func(c *config.Config, v float64) { c.Top.PushForce = v },
	"push_interval":      func(c *config.Config, v float64) { c.Top.PushInterval = v },
	"push_ramp_time":     func(c *config.Config, v float64) { c.Top.PushRampTime = v },
	"min_fall_time":      func(c *config.Config, v float64) { c.Top.MinFallTime = v },
	"max_fall_time":      func(c *config.Config, v float64) { c.Top.MaxFallTime = v },
	"placement_height":   func(c *config.Config, v float64) { c.Top.PlacementHeight = v },
	"placement_duration": func(c *config.Config, v float64) { c.Top.PlacementDuration = v },
	"mass":               func(c *config.Config, v float64) { c.Scene.Mass = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize picks the largest metric value instead of the smallest.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Params[name]; !ok {
			return nil, fmt.Errorf("optim: unknown param %q (available: %v)", name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base once per grid point and returns the best trial by
// metricName along with every trial evaluated. Grid points whose config
// does not validate are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, map[string]float64{}, base, reg, metricName, &trials); err != nil {
		return Trial{}, trials, err
	}
	if len(trials) == 0 {
		return Trial{}, nil, ErrNoTrials
	}

	best := trials[0]
	for _, t := range trials[1:] {
		if g.better(t.Value, best.Value) {
			best = t
		}
	}
	return best, trials, nil
}

func (g *GridSearch) better(v, than float64) bool {
	if math.IsNaN(than) {
		return !math.IsNaN(v)
	}
	if g.Maximize {
		return v > than
	}
	return v < than
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			Params[name](&cfg, v)
		}
		if cfg.Validate() != nil {
			return nil
		}

		exp, err := experiment.New(&cfg, reg, nil)
		if err != nil {
			return err
		}
		defer exp.Close()

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: unknown metric %q", metricName)
		}

		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*trials = append(*trials, Trial{Params: params, Value: val})
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, reg, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

// ParseParam reads "name=a,b,c" or "name=min:max:n" into a name and the
// values to try.
func ParseParam(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" || spec == "" {
		return "", nil, fmt.Errorf("optim: param %q must look like name=values", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return "", nil, fmt.Errorf("optim: bad range %q: %w", spec, err)
		}
		if n < 1 {
			return "", nil, fmt.Errorf("optim: range %q needs at least one step", spec)
		}
		if n == 1 {
			return name, []float64{lo}, nil
		}
		values := make([]float64, n)
		for i := range values {
			values[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return name, values, nil
	}

	var values []float64
	for _, part := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, fmt.Errorf("optim: bad value %q: %w", part, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
