package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

//go:embed defaults/t2048.yaml
var defaultT2048YAML []byte

// DefaultT2048Config returns the default 2048 configuration.
func DefaultT2048Config() T2048Config {
	return T2048Config{
		Engine: EngineConfig{
			Target:               engine.TargetTile,
			SpawnFourProbability: engine.DefaultFourProbability,
			HistoryDepth:         engine.DefaultHistoryDepth,
			HistoryPolicy:        engine.PolicyChangedOnly.String(),
		},
		Ledger: LedgerConfig{
			Enabled:   true,
			BatchSize: 8,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultT2048YAML
}
