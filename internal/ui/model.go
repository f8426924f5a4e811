package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xlemi/notescribe/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Playback advances this much per tick
	tickInterval = 100 * time.Millisecond

	// Playback keeps running this long after the last note ends (seconds)
	playbackTail = 1.0

	// Rows of the note list shown before the terminal size is known
	defaultListRows = 10

	// Smallest note list on a short terminal
	minListRows = 3

	// Lines taken by everything but the note list
	chromeRows = 12
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(accentColor)).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	rowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(secondaryColor)).
			Foreground(lipgloss.Color("#FAFAFA"))

	selectedRowStyle = rowStyle.
				Bold(true).
				Foreground(lipgloss.Color(primaryColor))
)

// TickMsg represents a playback timer tick
type TickMsg time.Time

// Model is the note viewer state
type Model struct {
	source      string
	notes       []pitch.Note
	cursor      int
	offset      int
	playing     bool
	currentTime float64
	maxTime     float64
	active      map[string]bool
	lastActive  *pitch.Note
	width       int
	height      int
}

// NewModel creates a viewer for notes detected in source
func NewModel(source string, notes []pitch.Note) Model {
	maxTime := 0.0
	for _, n := range notes {
		maxTime = max(maxTime, n.End())
	}

	return Model{
		source:  source,
		notes:   notes,
		maxTime: maxTime,
		active:  make(map[string]bool),
	}
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			if m.playing {
				m.stop()
				return m, nil
			}
			m.start()
			return m, tick()
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.moveCursor(0)

	case TickMsg:
		if !m.playing {
			return m, nil
		}

		m.currentTime += tickInterval.Seconds()
		if m.currentTime >= m.maxTime+playbackTail {
			m.stop()
			return m, nil
		}

		m.updateActiveNotes()
		return m, tick()
	}

	return m, nil
}

func (m *Model) start() {
	m.stop()
	m.playing = true
}

func (m *Model) stop() {
	m.playing = false
	m.currentTime = 0
	m.lastActive = nil
	clear(m.active)
}

func (m *Model) moveCursor(delta int) {
	if len(m.notes) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.notes)-1)

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if rows := m.listRows(); m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// listRows returns how many notes fit on screen.
func (m Model) listRows() int {
	if m.height <= 0 {
		return defaultListRows
	}
	return max(m.height-chromeRows, minListRows)
}

// updateActiveNotes marks every note sounding at currentTime
func (m *Model) updateActiveNotes() {
	clear(m.active)
	for i, n := range m.notes {
		if n.StartTime() <= m.currentTime && m.currentTime <= n.End() {
			m.active[n.DisplayName()] = true
			m.lastActive = &m.notes[i]
		}
	}
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("notescribe - " + m.source))
	b.WriteString("\n")

	if len(m.notes) == 0 {
		b.WriteString(infoStyle.Render("No notes detected"))
		b.WriteString("\n\n")
		b.WriteString(infoStyle.Render("Press q to quit"))
		return b.String()
	}

	b.WriteString(m.renderList())
	b.WriteString("\n")
	first, last := keyboardOctaves(m.width)
	b.WriteString(renderKeyboard(m.active, first, last))
	b.WriteString("\n")

	if m.playing && m.lastActive != nil && m.active[m.lastActive.DisplayName()] {
		b.WriteString(renderBadge(*m.lastActive))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("Time: %.1f s", m.currentTime)
	if m.playing {
		status += fmt.Sprintf(" | Max: %.1f s", m.maxTime)
	}
	b.WriteString(infoStyle.Render(status))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("space play/stop | up/down scroll | q quit"))

	return b.String()
}

func (m Model) renderList() string {
	var b strings.Builder

	rows := m.listRows()
	end := min(m.offset+rows, len(m.notes))
	for i := m.offset; i < end; i++ {
		n := m.notes[i]

		bar := lipgloss.NewStyle().
			Background(lipgloss.Color(paletteColor(n.Pitch()))).
			Render("  ")

		style := rowStyle
		if i == m.cursor {
			style = selectedRowStyle
		}

		row := fmt.Sprintf(" %-4s %8.1f Hz  %6.2f - %6.2f s ",
			n.DisplayName(), n.Frequency(), n.StartTime(), n.End())
		b.WriteString(style.Render(row) + bar + "\n")
	}

	if len(m.notes) > rows {
		b.WriteString(infoStyle.Render(fmt.Sprintf(" %d-%d of %d", m.offset+1, end, len(m.notes))))
		b.WriteString("\n")
	}

	return b.String()
}

// renderBadge renders a note in the large colored style; sharps are split
// between the colors of their neighbours.
func renderBadge(n pitch.Note) string {
	base := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Padding(1, 2)

	name := n.Pitch()
	if !strings.HasSuffix(name, "#") {
		return base.Background(lipgloss.Color(noteColors[name])).Render(n.DisplayName())
	}

	natural := string(name[0])
	left := base.PaddingRight(0).Background(lipgloss.Color(noteColors[natural]))
	right := base.PaddingLeft(0).Background(lipgloss.Color(noteColors[getNextNote(natural)]))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(natural),
		right.Render(fmt.Sprintf("#%d", n.Octave())))
}
