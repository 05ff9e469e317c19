package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/beadmd/internal/run"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	stepsPerTick    = 5
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(13)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the interactive monitor: it owns the step loop and redraws
// the bead cloud and the observable charts on every tick.
type Model struct {
	r      *run.Run
	canvas *Canvas

	step        int
	running     bool
	err         error
	consHistory []float64
	tempHistory []float64
	last        run.Sample
}

func NewModel(r *run.Run) Model {
	m := Model{
		r:           r,
		canvas:      NewCanvas(canvasWidth, canvasHeight),
		running:     true,
		consHistory: make([]float64, 0, historyCapacity),
		tempHistory: make([]float64, 0, historyCapacity),
	}
	m.last = r.Sample(0)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < stepsPerTick; i++ {
		if m.step >= m.r.Cfg.Steps {
			m.running = false
			return
		}
		if err := m.r.Dyn.Step(); err != nil {
			m.err = err
			return
		}
		m.step++
	}
	m.last = m.r.Sample(m.step)
	m.consHistory = appendBounded(m.consHistory, m.last.Conserved)
	m.tempHistory = appendBounded(m.tempHistory, m.last.Temperature)
}

func appendBounded(h []float64, v float64) []float64 {
	if len(h) == historyCapacity {
		copy(h, h[1:])
		h = h[:historyCapacity-1]
	}
	return append(h, v)
}

func (m Model) View() string {
	m.drawBeads()

	stats := headerStyle.Render(fmt.Sprintf("beadmd %s", m.r.Cfg.Mode)) + "\n"
	rows := []struct {
		label string
		value string
	}{
		{"step", fmt.Sprintf("%d / %d", m.step, m.r.Cfg.Steps)},
		{"time", fmt.Sprintf("%.1f a.u.", m.last.Time)},
		{"kinetic", fmt.Sprintf("%.6g Ha", m.last.Kinetic)},
		{"potential", fmt.Sprintf("%.6g Ha", m.last.Potential)},
		{"spring", fmt.Sprintf("%.6g Ha", m.last.Spring)},
		{"conserved", fmt.Sprintf("%.8g Ha", m.last.Conserved)},
		{"temperature", fmt.Sprintf("%.1f K", m.last.Temperature)},
		{"volume", fmt.Sprintf("%.4g bohr^3", m.last.Volume)},
	}
	for _, r := range rows {
		stats += labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n"
	}
	if m.err != nil {
		stats += "\n" + errorStyle.Render(m.err.Error())
	}

	if len(m.consHistory) > 1 {
		stats += graphStyle.Render(asciigraph.Plot(m.consHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("conserved")))
	}
	if len(m.tempHistory) > 1 {
		stats += graphStyle.Render(asciigraph.Plot(m.tempHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("temperature")))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats))
	return main + helpStyle.Render("\n space pause/resume  q quit")
}

// drawBeads projects every bead onto the xy plane of the cell, with
// ring-polymer bonds drawn between consecutive beads of each atom.
func (m Model) drawBeads() {
	m.canvas.Clear()
	b := m.r.Beads
	side := m.r.Cfg.System.CellSide

	px := func(q float64) int { return int(q / side * float64(canvasWidth*2)) }
	py := func(q float64) int { return int(q / side * float64(canvasHeight*4)) }

	for a := 0; a < b.NAtoms; a++ {
		for i := range b.Q {
			x, y := px(b.Q[i][3*a]), py(b.Q[i][3*a+1])
			m.canvas.Set(x, y)
			if b.NBeads > 1 {
				next := (i + 1) % b.NBeads
				m.canvas.DrawLine(x, y, px(b.Q[next][3*a]), py(b.Q[next][3*a+1]))
			}
		}
	}
}
