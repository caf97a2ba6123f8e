// tui2048 plays 2048 in the terminal and keeps a verifiable ledger of moves.
//
// Usage:
//
//	tui2048 list              - List available modes
//	tui2048 play [mode]       - Play a mode (default: classic 2048)
//	tui2048 menu              - Start menu to pick modes interactively
//	tui2048 serve             - Start SSH server for remote play
//	tui2048 scores <mode>     - Show high scores for a mode
//	tui2048 moves [mode]      - Show the move ledger
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 30)
//	--seed <value>     - Set RNG seed for reproducible spawns
//	--db <path>        - Set database path (default: ~/.tui2048/scores.db)
//	--config <path>    - Use a custom engine config YAML
//	--log-file <path>  - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
)

// logger is set up by rootCmd before any subcommand runs.
var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tui2048",
	Short: "TUI 2048 - Slide tiles in your terminal",
	Long: `TUI 2048 is the sliding tile puzzle for the terminal.

Every board-changing move is hashed and stored in batches so a game
can be audited afterwards.

Available commands:
  list     - Show all available modes
  play     - Play a mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  moves    - View the move ledger

Examples:
  tui2048 play
  tui2048 play 2048_endless --seed 42
  tui2048 menu
  tui2048 serve --ssh :2222
  tui2048 scores 2048
  tui2048 moves --limit 50`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		t2048.SetConfigPath(flagConfig)
		return setupLogging()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tui2048/scores.db", "Path to scores and moves database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (default: discard)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(movesCmd)
}

// setupLogging points the logger at --log-file. The terminal belongs to
// Bubble Tea, so without a file logs are dropped.
func setupLogging() error {
	if flagLogFile == "" {
		return nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
		Prefix:          "tui2048",
	})
	return nil
}

// ledgerSettings reads the ledger section of the engine config.
func ledgerSettings() config.LedgerConfig {
	cfg, err := config.LoadT2048(flagConfig)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", flagConfig, "err", err)
	}
	return cfg.Ledger
}
