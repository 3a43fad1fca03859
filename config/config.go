// Package config loads match and experiment settings from YAML.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"packetroyale/agent"
	"packetroyale/game"
	"packetroyale/meta"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config contains every setting a match or experiment needs.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Map        game.MapConfig   `yaml:"map"`
	// Bots holds one configuration per seat, indexed by player id.
	Bots       []agent.Config   `yaml:"bots" validate:"len=2,dive"`
	Logging    LoggingConfig    `yaml:"logging"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type SimulationConfig struct {
	Seed     uint64 `yaml:"seed"`
	MaxTicks int    `yaml:"max_ticks" validate:"min=1"`
	// TickInterval is the match-clock time one tick represents.
	TickInterval time.Duration `yaml:"tick_interval" validate:"gt=0"`
}

type LoggingConfig struct {
	// Level is a zerolog level name: "trace", "debug", "info" (default), "warn", "error" or "disabled".
	Level string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
}

type ExperimentConfig struct {
	Games int `yaml:"games" validate:"min=1"`
	// Aggressiveness lists the bot settings to pit against each other, pairwise.
	Aggressiveness []float64 `yaml:"aggressiveness" validate:"min=1,dive,gte=0,lte=1"`
	OutputDir      string    `yaml:"output_dir" validate:"required"`
}

// Default returns a configuration that passes validation.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Seed:         meta.DEFAULT_SEED,
			MaxTicks:     meta.MAX_TICKS,
			TickInterval: meta.TICK_INTERVAL,
		},
		Map:  game.DefaultMapConfig(),
		Bots: []agent.Config{agent.DefaultConfig(), agent.DefaultConfig()},
		Logging: LoggingConfig{
			Level: "info",
		},
		Experiment: ExperimentConfig{
			Games:          meta.EXPERIMENT_GAMES,
			Aggressiveness: []float64{0.2, 0.6, 1.0},
			OutputDir:      meta.EXPERIMENT_DIR,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	// Lattice neighbours sit hex_size*sqrt(3) apart
	if spacing := c.Map.HexSize * math.Sqrt(3); c.Map.ConnectDistance <= spacing {
		return fmt.Errorf("map.connect_distance %.1f must exceed the lattice spacing %.1f or no nodes connect", c.Map.ConnectDistance, spacing)
	}
	return nil
}

func formatValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
