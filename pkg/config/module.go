package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lootrush/lootrush/pkg/game"
	"github.com/lootrush/lootrush/pkg/props"
	"github.com/lootrush/lootrush/pkg/world"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

// Config is the server-level configuration. Game settings live here only as
// initial values; once a game config has been persisted, the stored copy
// wins.
type Config struct {
	Listen string `yaml:"listen"`

	TickMillis         int   `yaml:"tickMillis"`
	FlushIntervalTicks int64 `yaml:"flushIntervalTicks"`

	Database string `yaml:"database"`

	// Redis is optional; when absent, properties live in process memory.
	Redis *props.RedisSettings `yaml:"redis"`

	Spawn world.Location `yaml:"spawn"`

	Game game.Config `yaml:"game"`
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.TickMillis <= 0 {
		return fmt.Errorf("tickMillis must be positive, got %d", c.TickMillis)
	}
	if c.FlushIntervalTicks <= 0 {
		return fmt.Errorf("flushIntervalTicks must be positive, got %d", c.FlushIntervalTicks)
	}
	if c.Database == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	return c.Game.Validate()
}

// Process reads the provided configuration files in order on top of the
// default configuration; later files override earlier ones field by field.
func Process(configPaths []string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(DEFAULT, &config); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}

	for _, path := range configPaths {
		if filepath.Ext(path) != ".yaml" && filepath.Ext(path) != ".yml" {
			return nil, fmt.Errorf("config file %s is not in a valid format", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("could not process config file %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
