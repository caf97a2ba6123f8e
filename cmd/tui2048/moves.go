package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/ledger"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagMovesLimit int
	flagMovesBatch string
	flagMovesBoard bool
)

var movesCmd = &cobra.Command{
	Use:   "moves [mode]",
	Short: "Show the move ledger",
	Long: `Display recorded moves, newest first, and check each hash.

A move whose stored hash no longer matches its content is marked with "!".
A move that produced the 2048 tile is marked with "*".

Examples:
  tui2048 moves
  tui2048 moves 2048 --limit 50
  tui2048 moves --batch last --board`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMoves,
}

func init() {
	movesCmd.Flags().IntVar(&flagMovesLimit, "limit", 20, "Number of moves to show")
	movesCmd.Flags().StringVar(&flagMovesBatch, "batch", "", `Show one batch by ID ("last" for the newest)`)
	movesCmd.Flags().BoolVar(&flagMovesBoard, "board", false, "Print the board after each move")
}

func runMoves(_ *cobra.Command, args []string) error {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("unknown mode %q (run 'tui2048 list' to see available modes)", gameID)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	var entries []storage.MoveEntry
	switch batchID := flagMovesBatch; {
	case batchID == "":
		entries, err = store.RecentMoves(gameID, flagMovesLimit)
	default:
		if batchID == "last" {
			batchID, err = store.LastBatch(gameID)
			if errors.Is(err, storage.ErrNoMoves) {
				fmt.Println("No moves recorded yet.")
				return nil
			}
			if err != nil {
				return err
			}
		}
		entries, err = store.MovesByBatch(batchID)
	}
	if err != nil {
		return fmt.Errorf("retrieving moves: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No moves recorded yet.")
		return nil
	}

	fmt.Printf("  %-19s  %-12s  %-5s  %6s  %7s  %-13s  %s\n",
		"Time", "Mode", "Move", "Gain", "Score", "Hash", "Batch")

	tampered := 0
	for _, e := range entries {
		mark := " "
		switch {
		case !ledger.Verify(e.MoveRecord):
			mark = "!"
			tampered++
		case engine.HasReachedTarget(e.Board):
			mark = "*"
		}
		fmt.Printf("%s %-19s  %-12s  %-5s  %6d  %7d  %-13s  %s\n",
			mark,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.GameID,
			e.Direction,
			e.ScoreGained,
			e.Score,
			prefix(e.Hash, 12),
			prefix(e.BatchID, 8),
		)
		if flagMovesBoard {
			fmt.Print(formatBoard(e.Board))
		}
	}

	fmt.Println()
	fmt.Printf("%d moves, %d failed verification\n", len(entries), tampered)
	if tampered > 0 {
		return fmt.Errorf("%d moves do not match their hash", tampered)
	}
	return nil
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// formatBoard prints a board as an indented grid with dots for empty cells.
func formatBoard(b engine.Board) string {
	var sb strings.Builder
	for _, row := range b {
		sb.WriteString("     ")
		for _, v := range row {
			if v == 0 {
				fmt.Fprintf(&sb, "%6s", ".")
				continue
			}
			fmt.Fprintf(&sb, "%6d", v)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
