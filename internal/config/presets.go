package config

import (
	"fmt"
	"slices"

	"github.com/san-kum/euleretal/internal/dynamo"
)

var Presets = map[string]map[string]*Config{
	"center_mass": {
		"circular": {
			Field: "center_mass", Integrators: []string{"euler"}, StepSizes: []float64{0.1}, Duration: DefaultDuration,
			StartPosition: Vec3{1, 0, 0}, StartVelocity: Vec3{0, 1, 0},
		},
		"elliptic": {
			Field: "center_mass", Integrators: []string{"euler"}, StepSizes: []float64{0.05}, Duration: 8,
			StartPosition: Vec3{1, 0, 0}, StartVelocity: Vec3{0, 0.7, 0},
		},
		"escape": {
			Field: "center_mass", Integrators: []string{"euler"}, StepSizes: []float64{0.1}, Duration: 10,
			StartPosition: Vec3{1, 0, 0}, StartVelocity: Vec3{0, 1.5, 0},
		},
	},
	"constant": {
		"throw": {
			Field: "constant", Integrators: []string{"euler"}, StepSizes: []float64{0.25}, Duration: 2,
			StartPosition: Vec3{0, 0, 0}, StartVelocity: Vec3{1, 1, 0},
		},
		"drop": {
			Field: "constant", Integrators: []string{"euler"}, StepSizes: []float64{0.5}, Duration: 3,
			StartPosition: Vec3{0, 5, 0}, StartVelocity: Vec3{0, 0, 0},
		},
	},
	"spring": {
		"oscillate": {
			Field: "spring", Integrators: []string{"euler"}, StepSizes: []float64{0.2}, Duration: DefaultDuration,
			StartPosition: Vec3{1, 0, 0}, StartVelocity: Vec3{0, 0, 0},
		},
		"circle": {
			Field: "spring", Integrators: []string{"euler"}, StepSizes: []float64{0.2}, Duration: DefaultDuration,
			StartPosition: Vec3{1, 0, 0}, StartVelocity: Vec3{0, 1, 0},
		},
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(field, preset string) (*Config, error) {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil, fmt.Errorf("%w: no presets for field %s", dynamo.ErrUnknownPreset, field)
	}
	cfg, ok := fieldPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", dynamo.ErrUnknownPreset, field, preset)
	}
	return cfg.Clone(), nil
}

func ListPresets(field string) []string {
	fieldPresets, ok := Presets[field]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fieldPresets))
	for name := range fieldPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
