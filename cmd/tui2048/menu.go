package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive mode picker",
	Long: `Opens a menu to pick a mode, browse high scores or inspect the
move ledger. Leaving a game returns to the menu.

Controls:
  Up/Down or K/J  - Navigate
  Enter/Space     - Select
  Tab             - High scores
  M               - Move ledger
  Q/Esc           - Quit`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("storage unavailable", "path", flagDBPath, "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ledgerCfg := ledgerSettings()
	opts := tui.GameOptions{
		Store:     store,
		Ledger:    ledgerCfg.Enabled,
		BatchSize: ledgerCfg.BatchSize,
		Logger:    logger,
	}

	if err := tui.RunSession(terminalConfig(), opts); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
