package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/ledger"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// GameOptions wires a game model to persistence.
type GameOptions struct {
	Store     *storage.Store // nil disables scores and the ledger
	Ledger    bool           // ship move records to the store
	BatchSize int
	Logger    *log.Logger

	tracker *batcherSet
}

// batcherSet remembers the batchers created for one connection so they
// can be flushed after the program is gone.
type batcherSet struct {
	mu       sync.Mutex
	batchers []*ledger.Batcher
}

func (s *batcherSet) add(b *ledger.Batcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchers = append(s.batchers, b)
}

// flush submits whatever is still pending.
func (s *batcherSet) flush(ctx context.Context, logger *log.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.batchers {
		if _, err := b.Flush(ctx); err != nil {
			logger.Warn("ledger flush failed", "game", b.GameID(), "pending", b.Pending(), "err", err)
		}
	}
	s.batchers = nil
}

// GameModel runs one game inside Bubble Tea: it feeds key presses to the
// game as actions, steps it on every tick, ships its move records to the
// ledger and saves the final score.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	batcher    *ledger.Batcher
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       GameKeyMap
	help       help.Model
	standalone bool // Back quits instead of returning to a menu
	quitting   bool
	backToMenu bool
	scoreSaved bool
	scoreID    int64 // row holding this game's result once saved
}

// NewGameModel creates a game model.
func NewGameModel(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var batcher *ledger.Batcher
	if opts.Store != nil && opts.Ledger {
		batcher = ledger.NewBatcher(opts.Store, game.ID(), opts.BatchSize, logger)
		if opts.tracker != nil {
			opts.tracker.add(batcher)
		}
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-1)),
		store:      opts.Store,
		batcher:    batcher,
		logger:     logger,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	return tickCmd(m.config.TickRate)
}

// gameConfig is the runtime config minus the help line.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(1, cfg.ScreenH-1)
	return cfg
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		gc := m.gameConfig()
		m.screen.Resize(gc.ScreenW, gc.ScreenH)
		m.game.Resize(gc.ScreenW, gc.ScreenH)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.finishGame()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		m.finishGame()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(action)
		}

	case core.ActionNone:

	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleTick steps the game once.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.finishGame()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.scoreID = 0
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if result.Moved {
		m.drainRecords()
	}
	if wasOver && !m.gameState.GameOver {
		// Undo revived the game; its row is rewritten when it ends again
		m.scoreSaved = false
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.finishGame()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// drainRecords moves the game's new records into the ledger batcher.
func (m *GameModel) drainRecords() {
	rec, ok := m.game.(registry.Recorder)
	if !ok {
		return
	}
	for _, r := range rec.TakeRecords() {
		if m.batcher == nil {
			continue
		}
		if err := m.batcher.Add(context.Background(), r); err != nil {
			m.logger.Warn("ledger add failed", "game", m.game.ID(), "move", r.ID, "err", err)
		}
	}
}

// finishGame flushes the ledger and saves the result once per game. A game
// revived by undo updates its earlier row instead of adding one.
func (m *GameModel) finishGame() {
	m.drainRecords()
	if m.batcher != nil {
		if _, err := m.batcher.Flush(context.Background()); err != nil {
			m.logger.Warn("ledger flush failed", "game", m.game.ID(), "pending", m.batcher.Pending(), "err", err)
		}
	}

	if m.scoreSaved || !m.gameState.GameOver {
		return
	}
	m.scoreSaved = true
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	result := storage.GameResult{
		GameID:  m.game.ID(),
		Score:   m.gameState.Score,
		MaxTile: m.gameState.MaxTile,
		Moves:   m.gameState.Moves,
	}
	if m.scoreID != 0 {
		if err := m.store.UpdateScore(m.scoreID, result); err != nil {
			m.logger.Warn("score update failed", "game", result.GameID, "err", err)
			return
		}
		m.logger.Info("score updated", "game", result.GameID, "score", result.Score, "max_tile", result.MaxTile)
		return
	}
	id, err := m.store.SaveScore(result)
	if err != nil {
		m.logger.Warn("score save failed", "game", result.GameID, "err", err)
		return
	}
	m.scoreID = id
	m.logger.Info("score saved", "game", result.GameID, "score", result.Score, "max_tile", result.MaxTile)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the game and a help line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last game state seen by the model.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// Run plays a single game in the local terminal.
func Run(game registry.Game, cfg core.RuntimeConfig, opts GameOptions) error {
	model := NewGameModel(game, cfg, opts)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if m, ok := final.(GameModel); ok {
		// Ctrl+C from the terminal ends the program without a key message
		m.finishGame()
	}
	return err
}
