package config

import (
	"sort"

	"github.com/san-kum/fbmandel/internal/view"
)

// Presets are named starting views, laid out for a 320x240 surface.
var Presets = map[string]view.State{
	"home": view.Default(),
	"seahorse": {
		Scaling: 0.0005, XOffset: 0.825, YOffset: -0.04,
	},
	"elephant": {
		Scaling: 0.0004, XOffset: -0.216, YOffset: 0.04, ColourOffset: 6,
	},
	"spiral": {
		Scaling: 0.00002, XOffset: 0.746844, YOffset: -0.129426, ColourOffset: 3,
	},
	"minibrot": {
		Scaling: 0.00015, XOffset: 1.7789, YOffset: 0.018, ColourOffset: 9,
	},
	"wide": {
		Scaling: 0.02, XOffset: 3.7, YOffset: 2.4,
	},
}

func GetPreset(name string) (view.State, bool) {
	st, ok := Presets[name]
	return st, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
