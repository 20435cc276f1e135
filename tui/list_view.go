package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(18)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	cardSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Foreground(lipgloss.Color("255")).
				Bold(true)
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("YONGU CRM"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString("/ " + m.searchInput.View())
		s.WriteString("\n\n")
	} else if m.searchQuery != "" {
		s.WriteString(helpStyle.Render(fmt.Sprintf("filter: %q", m.searchQuery)))
		s.WriteString("\n\n")
	}

	switch m.tab {
	case TabContacts:
		s.WriteString(m.renderContactsTable())
	case TabPipeline:
		s.WriteString(m.renderPipelineBoard())
	case TabFollowups:
		s.WriteString(m.renderFollowupsTable())
	}
	s.WriteString("\n\n")

	if line := m.renderStatusLine(); line != "" {
		s.WriteString(line)
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) filter() app.Filter {
	return app.Filter{Query: m.searchQuery}
}

func (m Model) visibleContacts() []models.Contact {
	return m.ctrl.Contacts(m.filter())
}

func (m Model) renderContactsTable() string {
	contacts := m.visibleContacts()
	if len(contacts) == 0 {
		return helpStyle.Render("No contacts. Press n to add one.")
	}

	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Company", Width: 20},
		{Title: "Status", Width: 12},
		{Title: "Sector", Width: 12},
		{Title: "Continent", Width: 14},
	}

	var rows []table.Row
	for _, c := range contacts {
		rows = append(rows, table.Row{
			c.Name,
			c.Company,
			string(c.Status),
			string(c.Sector),
			string(c.Continent),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	// Set selected row
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

// boardColumns groups the visible contacts by pipeline status in board order.
func (m Model) boardColumns() [][]models.Contact {
	cols := make([][]models.Contact, len(models.Statuses))
	for _, c := range m.visibleContacts() {
		for i, s := range models.Statuses {
			if c.Status == s {
				cols[i] = append(cols[i], c)
				break
			}
		}
	}
	return cols
}

// boardPosition is where the card for id lands once it has the given status.
func (m Model) boardPosition(id string, status models.Status) (int, int) {
	col := 0
	for i, s := range models.Statuses {
		if s == status {
			col = i
		}
	}
	row := 0
	for _, c := range m.visibleContacts() {
		if c.ID == id {
			return col, row
		}
		if c.Status == status {
			row++
		}
	}
	return col, 0
}

func (m Model) renderPipelineBoard() string {
	cols := m.boardColumns()
	var rendered []string

	for i, status := range models.Statuses {
		var col strings.Builder
		col.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", status, len(cols[i]))))
		col.WriteString("\n")
		for j, c := range cols[i] {
			card := truncate(c.Name, 16)
			if i == m.boardCol && j == m.boardRow {
				card = cardSelectedStyle.Render(card)
			}
			col.WriteString(card)
			col.WriteString("\n")
		}
		rendered = append(rendered, columnStyle.Render(col.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: View details",
		"/: Search",
		"s/S: Status +/-",
		"n: New",
		"g: Graph",
		"q: Quit",
	}
	if m.tab == TabPipeline {
		help[0] = "←/→/↑/↓: Navigate"
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	if m.tab == TabPipeline {
		switch msg.String() {
		case "left", "h":
			if m.boardCol > 0 {
				m.boardCol--
				m.boardRow = 0
			}
			return m, nil
		case "right", "l":
			if m.boardCol < len(models.Statuses)-1 {
				m.boardCol++
				m.boardRow = 0
			}
			return m, nil
		case "up", "k":
			if m.boardRow > 0 {
				m.boardRow--
			}
			return m, nil
		case "down", "j":
			if m.boardRow < len(m.boardColumns()[m.boardCol])-1 {
				m.boardRow++
			}
			return m, nil
		}
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.viewMode = ViewDetail
			m.selectedID = id
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "esc":
		m.searchQuery = ""
		m.selectedRow = 0
	case "s", "S":
		return m.shiftStatus(m.getSelectedID(), msg.String() == "s")
	case "n":
		m.selectedID = ""
		m.viewMode = ViewEdit
		m.initFormInputs()
	case "g":
		m.viewMode = ViewGraph
		m.generateGraph()
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.selectedRow = 0
		m.boardRow = 0
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// shiftStatus moves a contact one step along the pipeline. On the board the
// cursor follows the card.
func (m Model) shiftStatus(id string, forward bool) (tea.Model, tea.Cmd) {
	if id == "" {
		return m, nil
	}
	c, err := m.ctrl.Contact(id)
	if err != nil {
		m.err = err
		m.message = "Error: " + err.Error()
		return m, nil
	}

	next := c.Status.Prev()
	if forward {
		next = c.Status.Next()
	}
	if next == c.Status {
		return m, nil
	}

	if m.tab == TabPipeline && m.viewMode == ViewList {
		m.boardCol, m.boardRow = m.boardPosition(id, next)
	}

	msgText := fmt.Sprintf("✓ %s → %s", c.Name, next)
	cmd := m.persist(msgText, func(ctx context.Context) error {
		return m.ctrl.SetStatus(ctx, id, next)
	})
	return m, cmd
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabFollowups:
		return len(m.ctrl.FollowUps(m.now()))
	default:
		return len(m.visibleContacts())
	}
}

func (m Model) getSelectedID() string {
	switch m.tab {
	case TabContacts:
		contacts := m.visibleContacts()
		if m.selectedRow < len(contacts) {
			return contacts[m.selectedRow].ID
		}
	case TabPipeline:
		cols := m.boardColumns()
		if m.boardCol < len(cols) && m.boardRow < len(cols[m.boardCol]) {
			return cols[m.boardCol][m.boardRow].ID
		}
	case TabFollowups:
		due := m.ctrl.FollowUps(m.now())
		if m.selectedRow < len(due) {
			return due[m.selectedRow].ID
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
