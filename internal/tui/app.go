package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/todo/internal/tasks"
)

type viewMode int

const (
	viewList viewMode = iota
	viewReport
	viewQuery
)

func (v viewMode) String() string {
	switch v {
	case viewReport:
		return "report"
	case viewQuery:
		return "query"
	default:
		return "list"
	}
}

// Model represents the main application state
type Model struct {
	store    *tasks.Store
	rows     []tasks.Task
	selected int
	width    int
	height   int
	mode     viewMode

	// Query input
	queryMode bool
	query     textinput.Model
	terms     []string

	// Delete confirmation mode
	confirmMode bool
	confirmID   int

	status string
	err    error

	keys keyMap
	help help.Model
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// New creates a new application model over an open store. Every mutation
// made in the UI is flushed to the store's backend immediately.
func New(store *tasks.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "search terms..."
	ti.Width = 40
	ti.CharLimit = 200
	ti.Prompt = "/ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	m := Model{
		store: store,
		query: ti,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.queryMode {
			return m.updateQuery(msg)
		}
		if m.confirmMode {
			return m.updateConfirm(msg)
		}

		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		case key.Matches(msg, m.keys.Report):
			if m.mode == viewReport {
				m.mode = viewList
			} else {
				m.mode = viewReport
			}
			m.refresh()
		case key.Matches(msg, m.keys.Query):
			m.queryMode = true
			m.query.SetValue(strings.Join(m.terms, " "))
			m.query.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Clear):
			m.terms = nil
			m.mode = viewList
			m.refresh()
		case key.Matches(msg, m.keys.Done):
			if t, ok := m.current(); ok {
				m.complete(t.ID)
			}
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.current(); ok {
				m.confirmMode = true
				m.confirmID = t.ID
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.queryMode = false
		m.query.Blur()
		return m, nil
	case tea.KeyEnter:
		m.queryMode = false
		m.query.Blur()
		m.terms = strings.Fields(m.query.Value())
		if len(m.terms) == 0 {
			m.mode = viewList
		} else {
			m.mode = viewQuery
		}
		m.selected = 0
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmID
	m.confirmMode = false
	m.confirmID = 0

	switch msg.String() {
	case "y", "Y":
		m.remove(id)
	default:
		// Any other key cancels
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m *Model) complete(id int) {
	if err := m.store.Done(id); err != nil {
		m.status = describe(err)
		return
	}
	if err := m.store.Flush(); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("Completed task %d", id)
	m.refresh()
}

func (m *Model) remove(id int) {
	if err := m.store.Delete(id); err != nil {
		m.status = describe(err)
		return
	}
	if err := m.store.Flush(); err != nil {
		m.err = err
		return
	}
	m.status = fmt.Sprintf("Deleted task %d", id)
	m.refresh()
}

func describe(err error) string {
	switch {
	case errors.Is(err, tasks.ErrAlreadyCompleted):
		return "Task is already completed"
	case errors.Is(err, tasks.ErrTaskNotFound):
		return "Task no longer exists"
	default:
		return err.Error()
	}
}

// refresh recomputes the visible rows for the current view
func (m *Model) refresh() {
	switch m.mode {
	case viewReport:
		m.rows = m.store.Report()
	case viewQuery:
		m.rows = m.store.Query(m.terms)
	default:
		m.rows = m.store.List()
	}
	m.selected = m.ensureValidSelection()
}

func (m Model) ensureValidSelection() int {
	if len(m.rows) == 0 {
		return 0
	}
	if m.selected >= len(m.rows) {
		return len(m.rows) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

func (m Model) current() (tasks.Task, bool) {
	if len(m.rows) == 0 {
		return tasks.Task{}, false
	}
	return m.rows[m.selected], true
}

// View renders the UI
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var sections []string

	if m.queryMode {
		sections = append(sections, m.query.View(), "")
	}

	sections = append(sections, m.renderList())

	if m.confirmMode {
		sections = append(sections, statusStyle.Render(fmt.Sprintf("Delete task %d? (y/N)", m.confirmID)))
	} else if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}

	sections = append(sections, m.help.View(m.keys))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.width > 0 {
		return borderStyle.Width(m.width - 2).Render(content)
	}
	return content
}

// renderList renders the task rows with the selection highlighted
func (m Model) renderList() string {
	var lines []string

	header := fmt.Sprintf("Tasks (%d) [%s]", len(m.rows), m.mode)
	if m.mode == viewQuery {
		header += " " + strings.Join(m.terms, ", ")
	}
	lines = append(lines, headerStyle.Render(header))
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-5s %-5s %-10s %-8s %s", "ID", "Age", "Due Date", "Priority", "Task")))

	if len(m.rows) == 0 {
		lines = append(lines, "  nothing to show")
	}

	for i, t := range m.rows {
		line := fmt.Sprintf("%-5d %-5s %-10s %-8d %s", t.ID, t.AgeText(), t.DueText(), t.Priority, t.Name)
		switch {
		case i == m.selected:
			line = selectedStyle.Render(line)
		case !t.Outstanding():
			line = completedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
