package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

func formatTaskSummary(task model.Task, projectNames map[string]string, today time.Time) string {
	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	parts := []string{fmt.Sprintf("%s p%d %s", check, task.Priority, task.Title)}
	if task.DueDate != nil {
		parts = append(parts, "due "+formatDue(task.DueDate, today))
	}
	if name, ok := projectNames[task.ProjectID]; ok {
		parts = append(parts, "#"+name)
	}
	return strings.Join(parts, " | ")
}

// formatDue names nearby days and falls back to the date with a relative
// offset.
func formatDue(due *time.Time, today time.Time) string {
	if due == nil {
		return "none"
	}
	day := model.DateOnly(*due)
	base := model.DateOnly(today)
	switch int(day.Sub(base).Hours() / 24) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return fmt.Sprintf("%s (%s)", day.Format(model.DateLayout), humanize.RelTime(day, base, "ago", "from now"))
}

func formatTaskDetails(task model.Task, history []model.HistoryEntry, projectNames map[string]string, today time.Time) []string {
	state := "active"
	if task.Completed {
		state = "completed"
	}
	project := "Inbox"
	if name, ok := projectNames[task.ProjectID]; ok {
		project = name
	}

	lines := []string{
		task.Title,
		"",
		fmt.Sprintf("Status: %s", state),
		fmt.Sprintf("Priority: P%d", task.Priority),
		fmt.Sprintf("Due: %s", formatDue(task.DueDate, today)),
		fmt.Sprintf("Project: %s", project),
		fmt.Sprintf("Created: %s", humanize.Time(task.CreatedAt)),
		fmt.Sprintf("Updated: %s", humanize.Time(task.UpdatedAt)),
		"",
		"History:",
	}
	if len(history) == 0 {
		return append(lines, "  none")
	}
	for _, entry := range history {
		line := fmt.Sprintf("  %s %s", humanize.Time(entry.CreatedAt), entry.EventType)
		if entry.Details != "" {
			line += ": " + entry.Details
		}
		lines = append(lines, line)
	}
	return lines
}
