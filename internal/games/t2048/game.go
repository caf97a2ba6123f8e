// Package t2048 runs the 2048 rules engine as a registry game: it maps
// platform actions to moves, spawns tiles after every board change and
// keeps the move records for the ledger.
package t2048

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/engine"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	// ModeClassic ends the game once the target tile appears.
	ModeClassic Mode = "classic"
	// ModeEndless keeps going after the target until no move is left.
	ModeEndless Mode = "endless"
)

// Game IDs as stored in the scores and moves tables.
const (
	IDClassic = "2048"
	IDEndless = "2048_endless"
)

// Minimum terminal size: board plus HUD and controls line.
const (
	minScreenW = boardW + 4
	minScreenH = hudHeight + boardH + 2
)

// configPath stores the custom config path set via CLI
var configPath string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// Game implements the 2048 puzzle on top of engine.Session.
type Game struct {
	mode    Mode
	cfg     config.T2048Config
	session *engine.Session
	clock   engine.Clock
	tick    uint64

	moves     int // recorded moves, undone ones included
	undone    int
	lastSpawn *engine.Cell
	records   []engine.MoveRecord

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	won      bool
	gameOver bool
	paused   bool
	tooSmall bool
}

// New creates a classic mode 2048 game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewEndless creates an endless mode 2048 game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDClassic
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Reset loads the config and starts a new game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.LoadT2048(configPath)
	if err != nil {
		cfg = config.DefaultT2048Config()
	}
	g.cfg = cfg

	seed := rc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.session = engine.NewSession(engine.SessionConfig{
		Random:       rand.New(rand.NewSource(seed)),
		Clock:        g.clock,
		HistoryDepth: cfg.Engine.HistoryDepth,
		Policy:       cfg.Engine.Policy(),
	})
	g.session.Initialize()

	g.tick = 0
	g.moves = 0
	g.undone = 0
	g.lastSpawn = nil
	g.records = nil
	g.won = false
	g.gameOver = false
	g.paused = false

	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.checkScreenSize()
}

// Resize updates the screen size and keeps the game going.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the game by one tick. At most one move is applied per tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionUndo) {
		g.undo()
		return core.StepResult{State: g.State()}
	}

	if g.finished() {
		return core.StepResult{State: g.State()}
	}

	dir, ok := actionDirection(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	moved := g.move(dir)
	return core.StepResult{State: g.State(), Moved: moved}
}

// actionDirection picks the move of this frame, if any.
func actionDirection(in core.InputFrame) (engine.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.DirUp, true
	case in.Has(core.ActionDown):
		return engine.DirDown, true
	case in.Has(core.ActionLeft):
		return engine.DirLeft, true
	case in.Has(core.ActionRight):
		return engine.DirRight, true
	}
	return 0, false
}

// move applies one slide. A changed board is recorded, checked for the
// target, given a new tile and checked for a dead end.
func (g *Game) move(dir engine.Direction) bool {
	out := g.session.ApplyMove(dir)
	if out.Record == nil {
		// Board didn't change - don't spawn new tile
		return false
	}

	g.records = append(g.records, *out.Record)
	g.moves++
	g.lastSpawn = nil

	board := g.session.Board()
	if !g.won && engine.HasTile(*board, g.cfg.Engine.Target) {
		g.won = true
		if g.mode == ModeClassic {
			return true
		}
	}

	if cell, _, ok := engine.SpawnTileWithOdds(board, g.session.Random(), g.cfg.Engine.SpawnFourProbability); ok {
		g.lastSpawn = &cell
	}

	if engine.IsTerminal(*board) {
		g.gameOver = true
	}
	return true
}

// undo restores the previous position. The win flag sticks so a classic
// game cannot be won twice. The move count is left alone: the ledger is
// append-only and keeps the records of undone moves.
func (g *Game) undo() {
	if g.mode == ModeClassic && g.won {
		return
	}
	if _, ok := g.session.Undo(); !ok {
		return
	}
	g.undone++
	g.lastSpawn = nil
	g.gameOver = engine.IsTerminal(*g.session.Board())
}

// finished reports whether moves are no longer accepted.
func (g *Game) finished() bool {
	return g.gameOver || (g.mode == ModeClassic && g.won)
}

// TakeRecords returns the move records produced since the last call.
func (g *Game) TakeRecords() []engine.MoveRecord {
	out := g.records
	g.records = nil
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	var maxTile int
	if g.session != nil {
		maxTile = g.session.Board().MaxTile()
	}
	return core.GameState{
		Score:    g.score(),
		MaxTile:  maxTile,
		Moves:    g.moves,
		Won:      g.won,
		GameOver: g.finished(),
		Paused:   g.paused || g.tooSmall,
	}
}

func (g *Game) score() int {
	if g.session == nil {
		return 0
	}
	return g.session.Score()
}

// Ensure Game emits move records
var _ registry.Recorder = (*Game)(nil)
