package main

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-keys/keyboard"
	"github.com/cwbudde/algo-keys/notes"
)

const (
	whiteWidth = 5
	blackWidth = 4
	blackInset = 3
)

var (
	whiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#202020")).Background(lipgloss.Color("#f4f4f4"))
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f4f4f4")).Background(lipgloss.Color("#202020"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#202020")).Background(lipgloss.Color("#ffb000")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7fb4ff"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a"))
)

// refreshMsg tells the model that the controller state changed. The model
// reads the state itself, so late or reordered deliveries cannot roll it back.
type refreshMsg struct{}

type model struct {
	ctrl    *keyboard.Controller
	state   keyboard.State
	octave  int
	lastErr string
}

func newModel(ctrl *keyboard.Controller) model {
	return model{ctrl: ctrl, state: ctrl.State(), octave: lowestOctave}
}

// Init picks up the state left by Mount, which happens before the program runs.
func (m model) Init() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.state = m.ctrl.State()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "z":
			m.octave = max(lowestOctave, m.octave-1)
			return m, nil
		case "x":
			m.octave = min(highestOctave, m.octave+1)
			return m, nil
		}
		id, ok := noteForKey(key, m.octave)
		if !ok {
			return m, nil
		}
		m.lastErr = ""
		if err := m.ctrl.Trigger(id); err != nil {
			m.lastErr = err.Error()
		}
		m.state = m.ctrl.State()
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("algo-keys"))
	if m.state.Degraded {
		b.WriteString("  " + warnStyle.Render("silent mode: audio unavailable"))
	}
	b.WriteString("\n\n")
	b.WriteString(renderBlackRow(m.state.ActiveID))
	b.WriteString("\n")
	b.WriteString(renderWhiteRow(m.state.ActiveID))
	b.WriteString("\n\n")
	if m.lastErr != "" {
		b.WriteString(warnStyle.Render(m.lastErr) + "\n")
	}
	b.WriteString(helpStyle.Render("a-k naturals  w e t y u sharps  z/x octave (" + strconv.Itoa(m.octave) + ")  q quit"))
	b.WriteString("\n")
	return b.String()
}

func renderWhiteRow(active string) string {
	cells := make([]string, 0, len(notes.Naturals()))
	for _, n := range notes.Naturals() {
		style := whiteStyle
		if n.ID == active {
			style = activeStyle
		}
		cells = append(cells, style.Render(pad(n.ID, whiteWidth)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderBlackRow(active string) string {
	var b strings.Builder
	cursor := 0
	for _, n := range notes.Accidentals() {
		left := notes.BlackKeyLeft(n.ID, whiteWidth, blackInset)
		b.WriteString(strings.Repeat(" ", max(0, left-cursor)))
		style := blackStyle
		if n.ID == active {
			style = activeStyle
		}
		b.WriteString(style.Render(pad(n.ID, blackWidth)))
		cursor = left + blackWidth
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
