// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Displays contacts whose follow-up date has arrived, oldest first
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
)

func (m Model) renderFollowupsTable() string {
	now := m.now()
	followups := m.ctrl.FollowUps(now)
	if len(followups) == 0 {
		return helpStyle.Render("Nothing due. 🎉")
	}

	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Name", Width: 22},
		{Title: "Company", Width: 20},
		{Title: "Due", Width: 12},
		{Title: "Days Since", Width: 10},
		{Title: "Status", Width: 12},
	}

	var rows []table.Row
	for _, c := range followups {
		overdue := int(now.Sub(*c.NextFollowUp).Hours() / 24)
		indicator := "🟡"
		if overdue > 7 {
			indicator = "🔴"
		}

		days := "never"
		if d := c.DaysSinceContact(now); d >= 0 {
			days = fmt.Sprintf("%d", d)
		}

		rows = append(rows, table.Row{
			indicator,
			c.Name,
			c.Company,
			c.NextFollowUp.Format("2006-01-02"),
			days,
			string(c.Status),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}
