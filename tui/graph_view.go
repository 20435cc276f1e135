package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/yongu/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	// Title
	if m.graphGeo {
		s.WriteString(titleStyle.Render("GEOGRAPHY GRAPH"))
	} else {
		s.WriteString(titleStyle.Render("PIPELINE GRAPH"))
	}
	s.WriteString("\n\n")

	switch {
	case m.graphError != nil:
		s.WriteString(errorStyle.Render("Error: " + m.graphError.Error()))
	case m.graphDOT == "":
		s.WriteString("Generating graph...\n")
	default:
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"Tab: Pipeline/Geography",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.graphDOT = ""
		m.graphError = nil
	case "tab":
		m.graphGeo = !m.graphGeo
		m.generateGraph()
	}

	return m, nil
}

func (m *Model) generateGraph() {
	generator := viz.NewGraphGenerator(m.ctrl.Document())

	if m.graphGeo {
		m.graphDOT, m.graphError = generator.GenerateGeographyGraph()
	} else {
		m.graphDOT, m.graphError = generator.GeneratePipelineGraph()
	}
}
