package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/ledger"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const maxMoveRows = 200

// MoveLogModel lists recent ledger entries, filtered by mode. Entries
// whose hash no longer matches are flagged with "!".
type MoveLogModel struct {
	modeBrowser
	store    *storage.Store
	entries  []storage.MoveEntry
	tampered int
	loadErr  error
}

// NewMoveLogModel creates a move log screen.
func NewMoveLogModel(store *storage.Store, width, height int) MoveLogModel {
	m := MoveLogModel{
		modeBrowser: newModeBrowser(width, height),
		store:       store,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *MoveLogModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Time", Width: 15},
		{Title: "Mode", Width: 13},
		{Title: "Move", Width: 6},
		{Title: "Gain", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Hash", Width: 10},
		{Title: "Batch", Width: 10},
	}
	fitColumns(columns, m.width-6)
	return newStyledTable(columns, m.height-10)
}

// load reads the newest entries for the selected filter.
func (m *MoveLogModel) load() {
	m.entries = nil
	m.loadErr = nil
	if m.store != nil {
		m.entries, m.loadErr = m.store.RecentMoves(m.filter().ID, maxMoveRows)
	}
	m.updateTableRows()
}

func (m *MoveLogModel) updateTableRows() {
	m.tampered = 0
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		hash := short(e.Hash)
		if !ledger.Verify(e.MoveRecord) {
			hash = "!" + hash
			m.tampered++
		}
		rows[i] = table.Row{
			e.CreatedAt.Local().Format("Jan 02 15:04:05"),
			e.GameID,
			e.Direction.String(),
			fmt.Sprintf("+%d", e.ScoreGained),
			fmt.Sprintf("%d", e.Score),
			hash,
			short(e.BatchID),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// short trims an identifier for display.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Init initializes the move log model.
func (m MoveLogModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the move log.
func (m MoveLogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

// View renders the move log.
func (m MoveLogModel) View() string {
	var body string
	switch {
	case m.store == nil:
		body = placeholder("The ledger is unavailable without a database.")
	case m.loadErr != nil:
		body = placeholder("Cannot read ledger:\n" + m.loadErr.Error())
	case len(m.entries) == 0:
		body = placeholder("No moves recorded yet.")
	default:
		body = m.table.View()
	}

	summary := ""
	if len(m.entries) > 0 {
		summary = fmt.Sprintf("%d moves shown · %d failed verification", len(m.entries), m.tampered)
	}
	return m.render(fmt.Sprintf("MOVE LEDGER - %s", m.filter().Title), summary, body)
}
