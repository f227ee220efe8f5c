// Package viz renders grid fields in the terminal: a bubbletea live viewer
// and standalone heat-map / chart helpers for the CLI.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fdtd/internal/grid"
	"github.com/san-kum/fdtd/internal/metrics"
)

const (
	mapWidth        = 72
	mapHeight       = 28
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

var polNames = [3]string{"Ex", "Ey", "Ez"}

// Model drives a grid interactively: each tick advances the simulation and
// redraws the centre-plane field.
type Model struct {
	g            *grid.Grid
	name         string
	running      bool
	pol          int
	stepsPerTick int
	maxSteps     int
	energy       []float64
}

// NewModel wraps a fully placed grid for live viewing. maxSteps of zero
// means run until quit.
func NewModel(g *grid.Grid, name string, maxSteps int) Model {
	return Model{
		g:            g,
		name:         name,
		running:      true,
		pol:          2,
		stepsPerTick: 1,
		maxSteps:     maxSteps,
		energy:       make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.g.Reset()
			m.energy = m.energy[:0]
		case "p":
			m.pol = (m.pol + 1) % 3
		case "+", "=":
			if m.stepsPerTick < 64 {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running && (m.maxSteps == 0 || m.g.StepsPassed() < m.maxSteps) {
			for i := 0; i < m.stepsPerTick; i++ {
				m.g.Step()
			}
			m.energy = append(m.energy, metrics.TotalEnergy(m.g))
			if len(m.energy) > historyCapacity {
				m.energy = m.energy[1:]
			}
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// View renders the heat map beside the run statistics.
func (m Model) View() string {
	canvas := canvasStyle.Render(Heatmap(m.g, m.pol, mapWidth, mapHeight))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	} else if m.maxSteps > 0 && m.g.StepsPassed() >= m.maxSteps {
		status = "DONE"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.g.StepsPassed())) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3g s", m.g.TimePassed())) + "\n")
	s.WriteString(labelStyle.Render("Field") + valueStyle.Render(polNames[m.pol]) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/tick", m.stepsPerTick)) + "\n")
	if len(m.energy) > 0 {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3g", m.energy[len(m.energy)-1])) + "\n")
	}

	if chart := EnergyChart(m.energy, 36, 5); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset P:Field +/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(s.String()))
}

// Run starts the live viewer and blocks until quit.
func Run(g *grid.Grid, name string, maxSteps int) error {
	_, err := tea.NewProgram(NewModel(g, name, maxSteps), tea.WithAltScreen()).Run()
	return err
}
