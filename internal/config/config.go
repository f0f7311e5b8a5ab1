package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/euleretal/internal/dynamo"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 6.283185307179586
	DefaultField    = "center_mass"
)

// Vec3 is written as a flow sequence: [x, y, z].
type Vec3 [3]float64

func (v Vec3) Position() dynamo.Position { return dynamo.NewPosition(v[0], v[1], v[2]) }

func (v Vec3) Velocity() dynamo.Velocity { return dynamo.NewVelocity(v[0], v[1], v[2]) }

func (v Vec3) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, c := range v {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(c)})
	}
	return node, nil
}

type Config struct {
	Field         string             `yaml:"field"`
	Integrators   []string           `yaml:"integrators"`
	StepSizes     []float64          `yaml:"step_sizes"`
	Duration      float64            `yaml:"duration"`
	StartPosition Vec3               `yaml:"start_position"`
	StartVelocity Vec3               `yaml:"start_velocity"`
	Params        map[string]float64 `yaml:"params,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Field:         DefaultField,
		Integrators:   []string{"euler"},
		StepSizes:     []float64{DefaultDt},
		Duration:      DefaultDuration,
		StartPosition: Vec3{1, 0, 0},
		StartVelocity: Vec3{0, 1, 0},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that do not need a registry lookup.
func (c *Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%w: %g", dynamo.ErrInvalidDuration, c.Duration)
	}
	if len(c.StepSizes) == 0 {
		return fmt.Errorf("%w: no step sizes", dynamo.ErrInvalidStepDuration)
	}
	for _, dt := range c.StepSizes {
		if dt <= 0 {
			return fmt.Errorf("%w: %g", dynamo.ErrInvalidStepDuration, dt)
		}
	}
	if len(c.Integrators) == 0 {
		return fmt.Errorf("%w: no integrators configured", dynamo.ErrUnknownIntegrator)
	}
	if c.Field == "" {
		return fmt.Errorf("%w: empty name", dynamo.ErrUnknownField)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Integrators = slices.Clone(c.Integrators)
	out.StepSizes = slices.Clone(c.StepSizes)
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
