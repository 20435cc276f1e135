// ABOUTME: Interactive terminal UI subcommand
// ABOUTME: Runs the bubbletea contact browser in the alternate screen
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/tui"
)

// TUICommand blocks until the user quits.
func TUICommand(ctrl *app.Controller) error {
	p := tea.NewProgram(tui.NewModel(ctrl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
