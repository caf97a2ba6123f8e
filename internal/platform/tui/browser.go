package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/registry"
)

// BrowserKeyMap defines the key bindings of the table screens.
type BrowserKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Back, k.Quit},
	}
}

// DefaultBrowserKeyMap returns default key bindings.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next mode"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	browserTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	browserBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
	browserDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	browserTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
)

// modeBrowser is the shared part of the scoreboard and the move log: a
// mode filter whose first entry covers all modes, a table and a help bar.
type modeBrowser struct {
	filters   []registry.GameInfo
	cursor    int
	table     table.Model
	help      help.Model
	keys      BrowserKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
	embedded  bool // Back returns to a parent model instead of quitting
}

func newModeBrowser(width, height int) modeBrowser {
	return modeBrowser{
		filters: append([]registry.GameInfo{{ID: "", Title: "All modes"}}, registry.List()...),
		help:    help.New(),
		keys:    DefaultBrowserKeyMap(),
		width:   width,
		height:  height,
	}
}

// filter is the selected mode; an empty ID means all modes.
func (b modeBrowser) filter() registry.GameInfo {
	return b.filters[b.cursor]
}

// handleKey applies navigation keys. reload is true when the filter changed.
func (b *modeBrowser) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, reload bool) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		b.quitting = true
		return tea.Quit, false

	case key.Matches(msg, b.keys.Back):
		b.goingBack = true
		if b.embedded {
			return nil, false
		}
		return tea.Quit, false

	case key.Matches(msg, b.keys.Next):
		b.cursor = (b.cursor + 1) % len(b.filters)
		return nil, true

	case key.Matches(msg, b.keys.Prev):
		b.cursor = (b.cursor + len(b.filters) - 1) % len(b.filters)
		return nil, true
	}

	b.table, cmd = b.table.Update(msg)
	return cmd, false
}

func (b *modeBrowser) resize(msg tea.WindowSizeMsg) {
	b.width = msg.Width
	b.height = msg.Height
	b.help.Width = msg.Width
}

// tabs renders the filter line, falling back to "< mode >" when narrow.
func (b modeBrowser) tabs() string {
	parts := make([]string, len(b.filters))
	for i, f := range b.filters {
		if i == b.cursor {
			parts[i] = browserTabStyle.Render(f.Title)
		} else {
			parts[i] = browserDimStyle.Render(" " + f.Title + " ")
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > b.width-4 {
		line = "< " + b.filter().Title + " >"
	}
	return centerText(line, b.width)
}

// render lays out a table screen: title, filter tabs, an optional summary
// line, the boxed body and the help bar.
func (b modeBrowser) render(title, summary, body string) string {
	if b.quitting || b.goingBack {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(browserTitleStyle.Render(centerText(title, b.width)))
	sb.WriteString("\n\n")
	sb.WriteString(b.tabs())
	sb.WriteString("\n")
	if summary != "" {
		sb.WriteString(browserDimStyle.Render(centerText(summary, b.width)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(browserBoxStyle.Render(body))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(b.help.View(b.keys)))
	return sb.String()
}

// placeholder is the body shown instead of an empty table.
func placeholder(text string) string {
	return browserDimStyle.Italic(true).Padding(2, 4).Render(text)
}

// IsGoingBack returns true if user wants to go back to menu.
func (b modeBrowser) IsGoingBack() bool {
	return b.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (b modeBrowser) IsQuitting() bool {
	return b.quitting
}

// fitColumns stretches the last column into the available width.
func fitColumns(columns []table.Column, width int) {
	fixed := 0
	for _, c := range columns[:len(columns)-1] {
		fixed += c.Width
	}
	last := &columns[len(columns)-1]
	if rest := width - fixed; rest > last.Width {
		last.Width = min(rest, 2*last.Width)
	}
}

// newStyledTable builds a focused table with the shared styles.
func newStyledTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, height)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}
