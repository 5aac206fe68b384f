package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stationport/internal/tasks"
)

const maxVisibleLines = 12

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	lineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type updateMsg tasks.ProgressUpdate

type closedMsg struct{}

// ProgressModel displays a live reconciliation run. It quits on its own
// once the engine closes the progress channel.
type ProgressModel struct {
	spinner  spinner.Model
	updates  <-chan tasks.ProgressUpdate
	phase    tasks.Phase
	lines    []string
	done     bool
	quitting bool
}

// NewProgressModel creates a progress view over the given update channel.
func NewProgressModel(updates <-chan tasks.ProgressUpdate) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return ProgressModel{
		spinner: sp,
		updates: updates,
		phase:   tasks.Idle,
	}
}

func waitForUpdate(updates <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return updateMsg(update)
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates))
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case updateMsg:
		m.phase = msg.Phase
		m.lines = append(m.lines, msg.Message)
		if len(m.lines) > maxVisibleLines {
			m.lines = m.lines[len(m.lines)-maxVisibleLines:]
		}
		return m, waitForUpdate(m.updates)

	case closedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("stationport import"))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(doneStyle.Render("run finished"))
	} else if m.quitting {
		b.WriteString(lineStyle.Render("detaching from run..."))
	} else {
		b.WriteString(fmt.Sprintf("%s %s", m.spinner.View(), phaseStyle.Render(m.phase.String())))
	}
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString(lineStyle.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
