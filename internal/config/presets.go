package config

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/sortlab/internal/input"
)

// Preset produces an input sequence. Seeded presets draw from rng.
type Preset struct {
	Description string
	Build       func(rng *rand.Rand) []int
}

var Presets = map[string]Preset{
	"demo": {
		Description: "three elements, one shift per pass",
		Build:       func(*rand.Rand) []int { return []int{3, 1, 2} },
	},
	"sorted": {
		Description: "best case, no shifts",
		Build:       func(*rand.Rand) []int { return input.Ascending(8) },
	},
	"reversed": {
		Description: "worst case, n(n-1)/2 shifts",
		Build:       func(*rand.Rand) []int { return input.Descending(8) },
	},
	"random": {
		Description: "ten random values",
		Build:       func(rng *rand.Rand) []int { return input.Random(10, rng) },
	},
	"duplicates": {
		Description: "repeated values, shows stability",
		Build:       func(rng *rand.Rand) []int { return input.WithDuplicates(10, rng) },
	},
	"single": {
		Description: "one element, terminal event only",
		Build:       func(*rand.Rand) []int { return []int{42} },
	},
	"empty": {
		Description: "no elements, terminal event only",
		Build:       func(*rand.Rand) []int { return []int{} },
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces cfg.Input with the preset's sequence.
func (c *Config) ApplyPreset(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	c.Input = p.Build(rand.New(rand.NewSource(c.Seed)))
	return nil
}
