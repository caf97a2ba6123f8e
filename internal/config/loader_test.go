package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/engine"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseT2048(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded default does not parse: %v", err)
	}
	if cfg != DefaultT2048Config() {
		t.Errorf("embedded YAML = %+v, hardcoded = %+v", cfg, DefaultT2048Config())
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
engine:
  target: 4096
  history_policy: compat
ledger:
  batch_size: 2
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadT2048(path)
	if err != nil {
		t.Fatalf("LoadT2048() failed: %v", err)
	}

	if cfg.Engine.Target != 4096 {
		t.Errorf("Target = %d, want 4096", cfg.Engine.Target)
	}
	if cfg.Engine.Policy() != engine.PolicyCompat {
		t.Errorf("Policy = %v, want compat", cfg.Engine.Policy())
	}
	if cfg.Ledger.BatchSize != 2 {
		t.Errorf("BatchSize = %d, want 2", cfg.Ledger.BatchSize)
	}
	// Unset fields keep defaults
	if cfg.Engine.HistoryDepth != engine.DefaultHistoryDepth {
		t.Errorf("HistoryDepth = %d, want default", cfg.Engine.HistoryDepth)
	}
	if !cfg.Ledger.Enabled {
		t.Error("Ledger.Enabled should keep its default")
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := LoadT2048(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("LoadT2048 with a missing custom path should fail")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"target not power of two", "engine:\n  target: 1000\n"},
		{"probability above one", "engine:\n  spawn_four_probability: 1.5\n"},
		{"zero history", "engine:\n  history_depth: 0\n"},
		{"unknown policy", "engine:\n  history_policy: sometimes\n"},
		{"zero batch", "ledger:\n  batch_size: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadT2048(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("LoadT2048() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("engine: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadT2048(path)
	if err == nil {
		t.Error("malformed YAML should fail")
	}
	if cfg != DefaultT2048Config() {
		t.Error("failed load should return defaults")
	}
}
