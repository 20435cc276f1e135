package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/yongu/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("CONTACT"))
	s.WriteString("\n\n")

	s.WriteString(m.renderContactDetail())
	s.WriteString("\n")

	if line := m.renderStatusLine(); line != "" {
		s.WriteString(line)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderContactDetail() string {
	contact, err := m.ctrl.Contact(m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", contact.Name))
	s.WriteString(m.renderField("Company", contact.Company))
	s.WriteString(m.renderField("Role", contact.Role))
	s.WriteString(m.renderField("Status", fmt.Sprintf("%s (since %s)", contact.Status, contact.StatusUpdatedAt.Format("2006-01-02"))))
	s.WriteString(m.renderField("Sector", string(contact.Sector)))
	s.WriteString(m.renderField("Continent", string(contact.Continent)))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Website", contact.Website))
	s.WriteString(m.renderField("Location", contact.Location))
	s.WriteString(m.renderField("Rate", contact.Rate))
	s.WriteString(m.renderField("Tags", strings.Join(contact.Tags, ", ")))

	if contact.LastContactDate != nil {
		s.WriteString(m.renderField("Last Contact", contact.LastContactDate.Format("2006-01-02")))
	}
	if contact.NextFollowUp != nil {
		s.WriteString(m.renderField("Next Follow Up", contact.NextFollowUp.Format("2006-01-02")))
	}

	s.WriteString(m.renderField("Notes", contact.Notes))

	// Interaction history, newest first
	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("LOGS"))
	s.WriteString("\n")

	if len(contact.Logs) == 0 {
		s.WriteString("  (none)\n")
	}
	for _, entry := range contact.Logs {
		s.WriteString(renderLogLine(entry))
	}

	return s.String()
}

func renderLogLine(entry models.LogEntry) string {
	line := fmt.Sprintf("  • [%s] %s", entry.Date.Format("2006-01-02"), entry.Type)
	if entry.Notes != "" {
		line += ": " + entry.Notes
	}
	return line + "\n"
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"s/S: Status +/-",
		"e: Edit",
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "s", "S":
		return m.shiftStatus(m.selectedID, msg.String() == "s")
	case "e":
		m.viewMode = ViewEdit
		m.initFormInputs()
	case "d":
		m.viewMode = ViewConfirmDelete
	}

	return m, nil
}
