package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pdxmph/todo/internal/tasks"
)

// Formats supported by Export.
var ExportFormats = []string{"json", "csv"}

type exportRow struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Priority  int     `json:"priority"`
	Due       *string `json:"due"`
	Age       int     `json:"age_days"`
	Created   string  `json:"created"`
	Completed *string `json:"completed"`
}

func toExportRow(t tasks.Task) exportRow {
	r := exportRow{
		ID:       t.ID,
		Name:     t.Name,
		Priority: t.Priority,
		Age:      t.Age,
		Created:  t.Created.Format(time.RFC3339),
	}
	if t.HasDue() {
		due := t.Due
		r.Due = &due
	}
	if t.Completed != nil {
		completed := t.Completed.Format(time.RFC3339)
		r.Completed = &completed
	}
	return r
}

// Export writes tasks in the given format.
func Export(w io.Writer, list []tasks.Task, format string) error {
	rows := make([]exportRow, 0, len(list))
	for _, t := range list {
		rows = append(rows, toExportRow(t))
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "name", "priority", "due", "age_days", "created", "completed"})
		for _, r := range rows {
			due, completed := "", ""
			if r.Due != nil {
				due = *r.Due
			}
			if r.Completed != nil {
				completed = *r.Completed
			}
			_ = cw.Write([]string{strconv.Itoa(r.ID), r.Name, strconv.Itoa(r.Priority), due, strconv.Itoa(r.Age), r.Created, completed})
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(ExportFormats, ", "))
	}
}
