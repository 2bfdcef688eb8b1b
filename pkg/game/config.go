package game

import (
	"fmt"

	"github.com/lootrush/lootrush/pkg/challenge"
	"github.com/lootrush/lootrush/pkg/props"
)

// Config is the operator-tunable game configuration, persisted as one JSON
// slot.
type Config struct {
	EasyChallengeCount   int   `json:"easyChallengeCount" yaml:"easyChallengeCount"`
	MediumChallengeCount int   `json:"mediumChallengeCount" yaml:"mediumChallengeCount"`
	HardChallengeCount   int   `json:"hardChallengeCount" yaml:"hardChallengeCount"`
	TotalRounds          int64 `json:"totalRounds" yaml:"totalRounds"`
	RoundDurationTicks   int64 `json:"roundDurationTicks" yaml:"roundDurationTicks"`
	MonitorIntervalTicks int64 `json:"monitorIntervalTicks" yaml:"monitorIntervalTicks"`
}

func DefaultConfig() Config {
	return Config{
		EasyChallengeCount:   3,
		MediumChallengeCount: 2,
		HardChallengeCount:   1,
		TotalRounds:          4,
		RoundDurationTicks:   18000,
		MonitorIntervalTicks: 10,
	}
}

func (c Config) Validate() error {
	if c.TotalRounds <= 0 {
		return fmt.Errorf("totalRounds must be positive, got %d", c.TotalRounds)
	}
	if c.RoundDurationTicks <= 0 {
		return fmt.Errorf("roundDurationTicks must be positive, got %d", c.RoundDurationTicks)
	}
	if c.MonitorIntervalTicks <= 0 {
		return fmt.Errorf("monitorIntervalTicks must be positive, got %d", c.MonitorIntervalTicks)
	}
	if c.EasyChallengeCount < 0 || c.MediumChallengeCount < 0 || c.HardChallengeCount < 0 {
		return fmt.Errorf("challenge counts cannot be negative")
	}
	return nil
}

func (c Config) Counts() challenge.Counts {
	return challenge.Counts{
		Easy:   c.EasyChallengeCount,
		Medium: c.MediumChallengeCount,
		Hard:   c.HardChallengeCount,
	}
}

// ConfigManager guards every mutation behind validation: an invalid candidate
// is rejected and the prior config retained.
type ConfigManager struct {
	store  *props.Store
	config Config
}

func NewConfigManager(store *props.Store) *ConfigManager {
	return &ConfigManager{
		store:  store,
		config: DefaultConfig(),
	}
}

// Load reads the persisted config, falling back to defaults when the slot is
// absent, malformed, or fails validation.
func (m *ConfigManager) Load() {
	candidate := props.GetJSON(m.store, props.KeyConfig, DefaultConfig())
	if err := candidate.Validate(); err != nil {
		m.config = DefaultConfig()
		return
	}
	m.config = candidate
}

func (m *ConfigManager) Save() {
	props.SetJSON(m.store, props.KeyConfig, m.config)
}

func (m *ConfigManager) Config() Config {
	return m.config
}

// Set updates a single field by name. The candidate is validated as a whole
// before it replaces the current config.
func (m *ConfigManager) Set(key string, value int64) error {
	candidate := m.config
	switch key {
	case "easyChallengeCount":
		candidate.EasyChallengeCount = int(value)
	case "mediumChallengeCount":
		candidate.MediumChallengeCount = int(value)
	case "hardChallengeCount":
		candidate.HardChallengeCount = int(value)
	case "totalRounds":
		candidate.TotalRounds = value
	case "roundDurationTicks":
		candidate.RoundDurationTicks = value
	case "monitorIntervalTicks":
		candidate.MonitorIntervalTicks = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := candidate.Validate(); err != nil {
		return err
	}

	m.config = candidate
	m.Save()
	return nil
}

func (m *ConfigManager) Reset() {
	m.config = DefaultConfig()
	m.Save()
}
