package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagNoLedger bool

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode (classic 2048 if omitted).

Controls:
  Arrows/WASD/HJKL  - Slide tiles
  U/Backspace       - Undo
  P                 - Pause
  R                 - Restart (after game over)
  Esc               - Leave (while paused or after game over)
  Q/Ctrl+C          - Quit

Examples:
  tui2048 play
  tui2048 play 2048_endless
  tui2048 play --seed 42 --no-ledger
  tui2048 play --config ./my-2048.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoLedger, "no-ledger", false, "Do not record moves")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := t2048.IDClassic
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q (run 'tui2048 list' to see available modes)", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// The game still works without storage
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("storage unavailable", "path", flagDBPath, "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ledgerCfg := ledgerSettings()
	opts := tui.GameOptions{
		Store:     store,
		Ledger:    ledgerCfg.Enabled && !flagNoLedger,
		BatchSize: ledgerCfg.BatchSize,
		Logger:    logger,
	}

	logger.Info("starting game", "game", gameID, "seed", flagSeed, "ledger", opts.Ledger)
	if err := tui.Run(game, terminalConfig(), opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// terminalConfig builds the runtime config from the flags and the size
// of the controlling terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}
