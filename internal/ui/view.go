// ABOUTME: TUI rendering and layout
// ABOUTME: Lipgloss panels for editor, graph, logs and the status line
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	graphWidth = 32
	logHeight  = 8
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	auxStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// layout resizes the panels after a terminal resize.
func (m *Model) layout() {
	edWidth := m.width - graphWidth - 6
	if edWidth < 20 {
		edWidth = 20
	}
	edHeight := m.height - logHeight - 7
	if edHeight < 3 {
		edHeight = 3
	}

	m.editor.SetWidth(edWidth)
	m.editor.SetHeight(edHeight)
	m.logs.Width = m.width - 4
	m.logs.Height = logHeight - 2
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render("glint") + fmt.Sprintf("  %s · %dHz · vol %d%%", m.status, m.sampleRate, m.volume)

	editor := panelStyle.Render(m.editor.View())
	graph := panelStyle.Width(graphWidth).Render(m.renderGraph())
	body := lipgloss.JoinHorizontal(lipgloss.Top, editor, graph)

	logs := panelStyle.Width(m.width - 2).Render(m.logs.View())

	help := helpStyle.Render(fmt.Sprintf("%s eval · %s play · %s stop · %s/%s volume · %s quit",
		m.keys.Evaluate, m.keys.Play, m.keys.Stop, m.keys.VolumeUp, m.keys.VolumeDn, m.keys.Quit))

	return lipgloss.JoinVertical(lipgloss.Left, title, body, logs, help)
}

// renderGraph lists the active chains and their nodes.
func (m Model) renderGraph() string {
	if len(m.graph) == 0 {
		return auxStyle.Render("no active graph")
	}

	var b strings.Builder
	for _, c := range m.graph {
		name := c.Name
		if c.Aux {
			name = auxStyle.Render(name)
		}
		b.WriteString(name + "\n")
		for _, n := range c.Nodes {
			b.WriteString("  └ " + n + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
