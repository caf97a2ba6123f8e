// Package config provides YAML-based configuration loading for the 2048
// engine and the move ledger.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// T2048Config contains all configuration for the 2048 game.
type T2048Config struct {
	Engine EngineConfig `yaml:"engine"`
	Ledger LedgerConfig `yaml:"ledger"`
}

// EngineConfig tunes the rules engine.
type EngineConfig struct {
	Target               int     `yaml:"target"`
	SpawnFourProbability float64 `yaml:"spawn_four_probability"`
	HistoryDepth         int     `yaml:"history_depth"`
	HistoryPolicy        string  `yaml:"history_policy"` // "changed_only" or "compat"
}

// LedgerConfig controls how move records are batched.
type LedgerConfig struct {
	Enabled   bool `yaml:"enabled"`
	BatchSize int  `yaml:"batch_size"`
}

// Validate checks value ranges.
func (c T2048Config) Validate() error {
	t := c.Engine.Target
	if t < 4 || t&(t-1) != 0 {
		return fmt.Errorf("%w: target %d is not a power of two >= 4", ErrInvalidConfig, t)
	}
	if p := c.Engine.SpawnFourProbability; p < 0 || p > 1 {
		return fmt.Errorf("%w: spawn_four_probability %v outside [0, 1]", ErrInvalidConfig, p)
	}
	if c.Engine.HistoryDepth < 1 {
		return fmt.Errorf("%w: history_depth must be at least 1", ErrInvalidConfig)
	}
	if _, err := engine.ParseHistoryPolicy(c.Engine.HistoryPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Ledger.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// Policy returns the parsed history policy, defaulting to changed_only.
func (c EngineConfig) Policy() engine.HistoryPolicy {
	p, err := engine.ParseHistoryPolicy(c.HistoryPolicy)
	if err != nil {
		return engine.PolicyChangedOnly
	}
	return p
}
