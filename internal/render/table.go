package render

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pdxmph/todo/internal/tasks"
)

var (
	ListHeaders   = []string{"ID", "Age", "Due Date", "Priority", "Task"}
	ReportHeaders = []string{"ID", "Age", "Due Date", "Priority", "Task", "Created", "Completed"}
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	overdueStyle = cellStyle.Copy().
			Foreground(lipgloss.Color("196"))

	completedStyle = cellStyle.Copy().
			Foreground(lipgloss.Color("241"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const dueColumn = 2

// List renders outstanding tasks with the list/query columns.
func List(list []tasks.Task, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, listRow(t))
	}
	return newTable(list, ListHeaders, rows, now).String()
}

// Report renders tasks with creation and completion columns.
func Report(list []tasks.Task, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, append(listRow(t), t.CreatedText(), t.CompletedText()))
	}
	return newTable(list, ReportHeaders, rows, now).String()
}

func listRow(t tasks.Task) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.AgeText(),
		t.DueText(),
		strconv.Itoa(t.Priority),
		t.Name,
	}
}

func newTable(list []tasks.Task, headers []string, rows [][]string, now time.Time) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(styleFor(list, now))
}

// styleFor picks the style of each cell. The header is row 0 and data rows
// are numbered from 1.
func styleFor(list []tasks.Task, now time.Time) func(row, col int) lipgloss.Style {
	// Due dates parse as UTC midnight; compare against today's calendar date.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return func(row, col int) lipgloss.Style {
		if row == 0 {
			return headerStyle
		}
		if row < 1 || row > len(list) {
			return cellStyle
		}
		t := list[row-1]
		switch {
		case !t.Outstanding():
			return completedStyle
		case col == dueColumn && isOverdue(t, today):
			return overdueStyle
		default:
			return cellStyle
		}
	}
}

func isOverdue(t tasks.Task, today time.Time) bool {
	due, ok := t.DueTime()
	return ok && due.Before(today)
}
