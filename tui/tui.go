// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Interactive contacts table, pipeline board, and detail view over the controller
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/yongu/app"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab is the list-view section being shown.
type Tab int

const (
	TabContacts Tab = iota
	TabPipeline
	TabFollowups
	tabCount
)

var tabNames = []string{"Contacts", "Pipeline", "Follow-ups"}

// savedMsg reports the end of a mutation and its save.
type savedMsg struct {
	message string
	err     error
}

// Model is the main bubbletea model
type Model struct {
	ctrl *app.Controller
	now  func() time.Time

	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow int
	searching   bool
	searchInput textinput.Model
	searchQuery string

	// Pipeline board cursor
	boardCol int
	boardRow int

	// Detail view state
	selectedID string

	// Edit view state
	formInputs []textinput.Model
	focusIndex int

	// Graph view state
	graphDOT   string
	graphGeo   bool
	graphError error

	// UI state
	pending int
	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model
func NewModel(ctrl *app.Controller) Model {
	search := textinput.New()
	search.Placeholder = "search name, company, notes, tags"
	search.CharLimit = 100

	return Model{
		ctrl:        ctrl,
		now:         time.Now,
		viewMode:    ViewList,
		tab:         TabContacts,
		searchInput: search,
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case savedMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = msg.err
		if msg.err != nil {
			m.message = "Error: " + msg.err.Error()
		} else {
			m.message = msg.message
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry owns every key except ctrl+c.
	typing := m.searching || m.viewMode == ViewEdit
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !typing {
			return m, tea.Quit
		}
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Saving reports whether a save is in flight, either queued by this model or
// running in the controller.
func (m Model) Saving() bool {
	return m.pending > 0 || m.ctrl.Saving()
}

// persist runs a controller mutation off the update loop. The saving
// indicator stays up until its savedMsg arrives.
func (m *Model) persist(message string, fn func(ctx context.Context) error) tea.Cmd {
	m.pending++
	m.message = ""
	return func() tea.Msg {
		return savedMsg{message: message, err: fn(context.Background())}
	}
}

func (m Model) renderStatusLine() string {
	if m.Saving() {
		return savingStyle.Render("● saving…")
	}
	if m.message == "" {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(m.message)
	}
	return messageStyle.Render(m.message)
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	savingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)
