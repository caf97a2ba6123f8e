package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

const maxScores = 100

// ScoreboardModel lists saved game results, best first, for one mode or
// for all of them, with a summary of the selection.
type ScoreboardModel struct {
	modeBrowser
	store   *storage.Store
	scores  []storage.ScoreEntry
	stats   storage.ModeStats
	loadErr error
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modeBrowser: newModeBrowser(width, height),
		store:       store,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Mode", Width: 13},
		{Title: "Score", Width: 9},
		{Title: "Tile", Width: 7},
		{Title: "Moves", Width: 7},
		{Title: "Date", Width: 14},
	}
	fitColumns(columns, m.width-6)
	return newStyledTable(columns, m.height-10)
}

// load reads the results and the summary for the selected filter.
func (m *ScoreboardModel) load() {
	m.scores = nil
	m.stats = storage.ModeStats{}
	m.loadErr = nil
	if m.store != nil {
		id := m.filter().ID
		m.scores, m.loadErr = m.store.TopScores(id, maxScores)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.Stats(id)
		}
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			s.GameID,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.MaxTile),
			fmt.Sprintf("%d", s.Moves),
			s.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd, reload := m.handleKey(msg)
		if reload {
			m.load()
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table = m.createTable()
		m.updateTableRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// summary describes the selection in one line.
func (m ScoreboardModel) summary() string {
	if m.stats.Games == 0 {
		return ""
	}
	games := "games"
	if m.stats.Games == 1 {
		games = "game"
	}
	return fmt.Sprintf("%d %s · best %d · best tile %d · %d moves played",
		m.stats.Games, games, m.stats.BestScore, m.stats.BestTile, m.stats.Moves)
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var body string
	switch {
	case m.store == nil:
		body = placeholder("Scores are unavailable without a database.")
	case m.loadErr != nil:
		body = placeholder("Cannot read scores:\n" + m.loadErr.Error())
	case len(m.scores) == 0:
		body = placeholder("No scores recorded yet.\nFinish a game to set a high score!")
	default:
		body = m.table.View()
	}

	title := fmt.Sprintf("HIGH SCORES - %s", m.filter().Title)
	return m.render(title, m.summary(), body)
}
