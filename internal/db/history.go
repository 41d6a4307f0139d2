package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

func formatCreatedDetails(task model.Task) string {
	return fmt.Sprintf("created: title='%s' completed=%t priority=%d project=%s due=%s", task.Title, task.Completed, task.Priority, formatProject(task.ProjectID), formatDue(task.DueDate))
}

func formatDeletedDetails(task model.Task) string {
	return fmt.Sprintf("deleted: title='%s' completed=%t priority=%d project=%s due=%s", task.Title, task.Completed, task.Priority, formatProject(task.ProjectID), formatDue(task.DueDate))
}

func formatTaskDiff(before, after model.Task) string {
	changes := []string{}
	if before.Title != after.Title {
		changes = append(changes, formatChange("title", before.Title, after.Title))
	}
	if before.Completed != after.Completed {
		changes = append(changes, formatChange("completed", strconv.FormatBool(before.Completed), strconv.FormatBool(after.Completed)))
	}
	if before.Priority != after.Priority {
		changes = append(changes, formatChange("priority", strconv.Itoa(before.Priority), strconv.Itoa(after.Priority)))
	}
	if before.ProjectID != after.ProjectID {
		changes = append(changes, formatChange("project", before.ProjectID, after.ProjectID))
	}
	if formatDue(before.DueDate) != formatDue(after.DueDate) {
		changes = append(changes, formatChange("due", formatDue(before.DueDate), formatDue(after.DueDate)))
	}

	if len(changes) == 0 {
		return "updated: no changes"
	}
	return "updated: " + strings.Join(changes, "; ")
}

func formatChange(field, before, after string) string {
	return fmt.Sprintf("%s: '%s' -> '%s'", field, valueOrNone(before), valueOrNone(after))
}

func valueOrNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "none" {
		return "none"
	}
	return trimmed
}

func formatDue(value *time.Time) string {
	if value == nil {
		return "none"
	}
	return value.Format(model.DateLayout)
}

func formatProject(projectID string) string {
	if strings.TrimSpace(projectID) == "" {
		return "inbox"
	}
	return projectID
}
