package t2048

import "github.com/vovakirdan/tui-2048/internal/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateWon         GameStateType = "won"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Target  int
	Score   int
	Moves   int
	Undos   int // Snapshots available to undo
	Undone  int // Undos performed
	Board   engine.Board
	MaxTile int
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.gameOver:
		state = StateGameOver
	case g.won:
		state = StateWon
	}

	board := *g.session.Board()
	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Target:  g.cfg.Engine.Target,
		Score:   g.session.Score(),
		Moves:   g.moves,
		Undos:   g.session.HistoryLen() - 1,
		Undone:  g.undone,
		Board:   board,
		MaxTile: board.MaxTile(),
		State:   state,
	}
}
