// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/stats"
	"github.com/verte-zerg/kakitori/internal/store"
)

var sortKeys = []string{"char", "attempts", "errors", "streak", "recent"}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	rows   []stats.Row
	errMsg string

	charTable table.Model

	width  int
	height int

	sortIndex    int
	confirmReset string
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
	}
	for i, key := range sortKeys {
		if key == cfg.Sort {
			m.sortIndex = i
		}
	}
	m.charTable = buildCharTable(nil, 0, 1)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if m.confirmReset != "" {
			switch msg.String() {
			case "y", "Y":
				m.resetChar(m.confirmReset)
				m.confirmReset = ""
			default:
				m.confirmReset = ""
			}
			return m, nil
		}
		switch {
		case msg.Type == tea.KeyCtrlC || msg.String() == "q":
			return m, tea.Quit
		case msg.String() == "s":
			m.sortIndex = (m.sortIndex + 1) % len(sortKeys)
			m.cfg.Sort = sortKeys[m.sortIndex]
			m.refresh()
			return m, nil
		case msg.String() == "r":
			m.refresh()
			return m, nil
		case msg.String() == "x":
			if char := m.selectedChar(); char != "" {
				m.confirmReset = char
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.charTable, cmd = m.charTable.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.charTable.View())
	b.WriteString("\n")
	if m.confirmReset != "" {
		b.WriteString(promptStyle.Render(fmt.Sprintf("Reset stats for %s? (y/N)", m.confirmReset)))
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("sort: %s  [s] sort  [x] reset char  [r] reload  [q] quit", sortKeys[m.sortIndex])))
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	return b.String()
}

func (m *Model) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	report, err := stats.BuildReport(ctx, m.store, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.rows = report.Rows
	m.updateLayout()
}

func (m *Model) resetChar(char string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.Reset(ctx, char); err != nil {
		m.errMsg = fmt.Sprintf("Failed to reset %s: %v", char, err)
		return
	}
	m.refresh()
}

func (m *Model) selectedChar() string {
	row := m.charTable.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m *Model) updateLayout() {
	cursor := m.charTable.Cursor()
	bodyHeight := m.height - lipgloss.Height(m.renderCards()) - 2
	m.charTable = buildCharTable(m.rows, m.width, bodyHeight)
	m.charTable.Focus()
	m.charTable.SetCursor(cursor)
}

func (m *Model) renderCards() string {
	var attempts, errors int
	for _, r := range m.rows {
		attempts += r.Attempts
		errors += r.Errors + r.DirectionErrors
	}
	cards := []string{
		renderCard("Characters", fmt.Sprintf("%d", len(m.rows))),
		renderCard("Attempts", fmt.Sprintf("%d", attempts)),
		renderCard("Errors", fmt.Sprintf("%d", errors)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func buildCharTable(rows []stats.Row, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Char", Width: 4},
		{Title: "Attempts", Width: 8},
		{Title: "Streak", Width: 6},
		{Title: "Errors", Width: 6},
		{Title: "Dir Errors", Width: 10},
		{Title: "Redraws", Width: 7},
		{Title: "Avg Time (s)", Width: 12},
		{Title: "Last Attempt", Width: 16},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		last := "never"
		if r.LastAttempt != nil {
			last = r.LastAttempt.Local().Format("2006-01-02 15:04")
		}
		tableRows = append(tableRows, table.Row{
			r.Char,
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Streak),
			fmt.Sprintf("%d", r.Errors),
			fmt.Sprintf("%d", r.DirectionErrors),
			fmt.Sprintf("%d", r.Redraws),
			fmt.Sprintf("%.1f", r.AvgTimeMs/1000),
			last,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithHeight(maxInt(1, height)),
	)
	t.SetWidth(width)
	t.SetStyles(charTableStyles())
	return t
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
