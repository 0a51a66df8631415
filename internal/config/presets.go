package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spintop/internal/curve"
)

// Presets tweak the default config. GetPreset always starts from a fresh
// DefaultConfig so callers may modify the result.
var Presets = map[string]func(c *Config){
	"classic": func(c *Config) {},
	"quick": func(c *Config) {
		c.Top.MinFallTime, c.Top.MaxFallTime = 1.5, 2.5
		c.Sim.Duration = 6
	},
	"wobbly": func(c *Config) {
		c.Top.PushForce = 0.6
		c.Top.PushInterval = 0.75
		c.Top.PushRampTime = 0.25
	},
	"calm": func(c *Config) {
		c.Top.PushForce = 0
	},
	"linear": func(c *Config) {
		c.Top.Curve = curve.Spec{Type: "linear"}
	},
	"late-drop": func(c *Config) {
		c.Top.Curve = curve.Spec{Type: "keys", Keys: []curve.Key{
			{Time: 0, Value: 0},
			{Time: 0.7, Value: 0.1},
			{Time: 1, Value: 1},
		}}
	},
	"ledge": func(c *Config) {
		c.Scene.Name = "ledge"
		c.Scene.Forward = mgl64.Vec3{0.6, -0.7, -1}
	},
	"toss": func(c *Config) {
		c.Scene.Name = "void"
		c.Sim.Duration = 4
	},
	"stairs": func(c *Config) {
		c.Scene.Name = "stairs"
		c.Scene.Forward = mgl64.Vec3{0, -1.2, -1.02}
		c.Scene.UseAt = []float64{1, 7}
		c.Scene.PickupAt = []float64{0, 6}
		c.Sim.Duration = 16
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
