// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/kakitori/internal/model"
	"github.com/verte-zerg/kakitori/internal/session"
	"github.com/verte-zerg/kakitori/internal/svgpath"
)

const hintDuration = 3 * time.Second

var (
	canonicalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	acceptedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	rejectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type hintExpiredMsg struct {
	seq int
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	cfg   model.Config
	sess  *session.Session
	isDue bool

	width  int
	height int

	drawing bool
	stroke  []model.Point

	hintActive bool
	hintSeq    int

	message      string
	messageStyle lipgloss.Style

	// flattened canonical polylines per character index
	flat map[int][][]model.Point
}

// NewModel constructs a practice TUI model.
func NewModel(cfg model.Config, sess *session.Session, isDue bool) *Model {
	return &Model{
		cfg:          cfg,
		sess:         sess,
		isDue:        isDue,
		messageStyle: footerStyle,
		flat:         map[int][][]model.Point{},
	}
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
		return m, nil
	case hintExpiredMsg:
		if msg.seq == m.hintSeq {
			m.hintActive = false
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		if m.sess.Next() {
			m.resetTransient("")
		}
	case "p":
		if m.sess.Prev() {
			m.resetTransient("")
		}
	case "c":
		m.sess.Clear()
		m.resetTransient("Cleared")
	case "r":
		m.sess.Restart()
		m.resetTransient("Restarted")
	case "h":
		if !m.sess.Complete() {
			m.hintActive = true
			m.hintSeq++
			seq := m.hintSeq
			return m, tea.Tick(hintDuration, func(time.Time) tea.Msg {
				return hintExpiredMsg{seq: seq}
			})
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if m.sess.Complete() {
			return
		}
		m.drawing = true
		m.stroke = m.stroke[:0]
		m.appendPoint(msg.X, msg.Y)
	case tea.MouseActionMotion:
		if !m.drawing {
			return
		}
		m.appendPoint(msg.X, msg.Y)
	case tea.MouseActionRelease:
		if !m.drawing {
			return
		}
		m.drawing = false
		m.submitStroke()
	}
}

func (m *Model) appendPoint(screenX, screenY int) {
	originX, originY := m.canvasOrigin()
	cellX := screenX - originX
	cellY := screenY - originY
	c := newCanvas()
	if cellX < 0 || cellY < 0 || cellX >= c.cellsW || cellY >= c.cellsH {
		return
	}
	m.stroke = append(m.stroke, cellToDot(cellX, cellY))
}

func (m *Model) submitStroke() {
	points := m.stroke
	m.stroke = nil
	result := m.sess.Submit(context.Background(), points)
	switch result.Status {
	case session.Ignored:
		m.message = ""
		m.messageStyle = footerStyle
	case session.RejectedShape:
		m.message = "No matching stroke, try again"
		m.messageStyle = rejectStyle
	case session.RejectedDirection:
		m.message = "Wrong direction"
		m.messageStyle = rejectStyle
	case session.Accepted:
		m.hintActive = false
		m.message = fmt.Sprintf("Stroke %d", result.MatchedIndex+1)
		m.messageStyle = okStyle
		if result.CharComplete {
			m.message = "Character complete"
			if result.Advanced {
				m.message = "Character complete, next"
			}
		}
	}
}

func (m *Model) resetTransient(message string) {
	m.drawing = false
	m.stroke = nil
	m.hintActive = false
	m.message = message
	m.messageStyle = footerStyle
}

// canvasOrigin returns the screen cell of the canvas's top-left corner. The
// layout is fixed so mouse coordinates map back deterministically.
func (m *Model) canvasOrigin() (int, int) {
	c := newCanvas()
	originX := (m.width - c.cellsW) / 2
	if originX < 0 {
		originX = 0
	}
	return originX, 2
}

// View implements tea.Model.
func (m *Model) View() string {
	char := m.sess.Active()
	if char.Literal == "" {
		return ""
	}
	originX, _ := m.canvasOrigin()
	pad := strings.Repeat(" ", originX)

	var b strings.Builder
	b.WriteString(pad)
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	c := newCanvas()
	m.paintCanonical(c)
	m.paintUser(c)
	for _, line := range strings.Split(c.render(), "\n") {
		b.WriteString(pad)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(pad)
		b.WriteString(m.messageStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	char := m.sess.Active()
	header := fmt.Sprintf("%s  %d/%d", char.Literal, m.sess.ActiveIndex()+1, len(m.sess.Chars()))
	if m.sess.Complete() {
		header += "  done"
	}
	return headerStyle.Render(header)
}

func (m *Model) paintCanonical(c *canvas) {
	char := m.sess.Active()
	p := m.sess.Progress()
	view := session.NewView(m.cfg.DueMode, m.isDue, m.hintActive, p.Completed, m.sess.NextExpected(), len(char.Strokes))
	polylines := m.flattened()
	for i, stroke := range char.Strokes {
		if !view.StrokeVisible(i) {
			continue
		}
		l := layerCanonical
		if m.hintActive && i == m.sess.NextExpected() && !p.Completed.IsComplete(i) {
			l = layerHint
		}
		if i < len(polylines) && len(polylines[i]) > 0 {
			c.polyline(polylines[i], l)
		}
		if view.LabelVisible(i) && stroke.LabelX != nil && stroke.LabelY != nil {
			c.label(formatLabel(i+1), *stroke.LabelX, *stroke.LabelY, l)
		}
	}
}

func (m *Model) paintUser(c *canvas) {
	p := m.sess.Progress()
	for _, stroke := range p.Strokes {
		c.polyline(stroke, layerAccepted)
	}
	if len(m.stroke) > 0 {
		c.polyline(m.stroke, layerActive)
	}
}

// flattened caches one polyline per canonical stroke of the active
// character. Stroke paths hold a single subpath in practice; extra subpaths
// are joined.
func (m *Model) flattened() [][]model.Point {
	idx := m.sess.ActiveIndex()
	if cached, ok := m.flat[idx]; ok {
		return cached
	}
	char := m.sess.Active()
	flat := make([][]model.Point, 0, len(char.Strokes))
	for _, stroke := range char.Strokes {
		var merged []model.Point
		for _, line := range svgpath.Flatten(stroke.D) {
			merged = append(merged, line...)
		}
		flat = append(flat, merged)
	}
	m.flat[idx] = flat
	return flat
}

func (m *Model) renderFooter() string {
	char := m.sess.Active()
	p := m.sess.Progress()
	rec := m.sess.Stats(char.Literal)

	segments := []string{
		fmt.Sprintf("Strokes %d/%d", p.Completed.Count(), len(char.Strokes)),
	}
	if rec.TotalAttempts > 0 {
		segments = append(segments, fmt.Sprintf("Attempts %d · Streak %d", rec.TotalAttempts, rec.ConsecutiveCorrect))
	}
	if p.ShapeErrors+p.DirectionErrors > 0 {
		segments = append(segments, fmt.Sprintf("Errors %d", p.ShapeErrors+p.DirectionErrors))
	}
	segments = append(segments, "[h]int [c]lear [r]estart [n/p] nav [q]uit")
	footer := strings.Join(segments, "  ")
	if m.width > 0 && runewidth.StringWidth(footer) > m.width {
		footer = runewidth.Truncate(footer, m.width, "…")
	}
	return footerStyle.Render(footer)
}
