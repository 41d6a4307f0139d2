// Package visibility decides which tasks a view shows and in what order.
package visibility

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

// View is the selected grouping context: Inbox, Today or a project id.
type View string

const (
	Inbox View = model.InboxID
	Today View = model.TodayID
)

func ProjectView(projectID string) View {
	return View(projectID)
}

func ParseView(value string) View {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Inbox
	}
	return View(trimmed)
}

// ProjectID returns the concrete project id, or "" for the reserved views.
func (v View) ProjectID() string {
	if v == Inbox || v == Today {
		return ""
	}
	return string(v)
}

func (v View) String() string {
	return string(v)
}

type StatusFilter int

const (
	All StatusFilter = iota
	Active
	Completed
)

var ErrUnknownStatusFilter = errors.New("unknown status filter")

func ParseStatusFilter(value string) (StatusFilter, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "all":
		return All, nil
	case "active":
		return Active, nil
	case "completed", "done":
		return Completed, nil
	}
	return All, fmt.Errorf("%w: %q", ErrUnknownStatusFilter, value)
}

func (f StatusFilter) String() string {
	switch f {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// Midnight normalizes t to the start of its day in t's own location.
func Midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Member reports whether task belongs to view. Today is computed from the
// due date alone; Inbox holds unassigned tasks.
func Member(task model.Task, view View, today time.Time) bool {
	switch view {
	case Today:
		return task.DueDate != nil && sameDay(Midnight(*task.DueDate), Midnight(today))
	case Inbox:
		return task.Unassigned()
	default:
		return task.ProjectID == string(view)
	}
}

// Matches reports whether task passes the status filter. Unknown filter
// values behave like All.
func (f StatusFilter) Matches(task model.Task) bool {
	switch f {
	case Active:
		return !task.Completed
	case Completed:
		return task.Completed
	default:
		return true
	}
}

// VisibleTasks returns the tasks of view that pass status, incomplete tasks
// first, then by ascending priority. Equal keys keep their input order.
// allTasks is not modified.
func VisibleTasks(allTasks []model.Task, view View, status StatusFilter, today time.Time) []model.Task {
	visible := make([]model.Task, 0, len(allTasks))
	for _, task := range allTasks {
		if Member(task, view, today) && status.Matches(task) {
			visible = append(visible, task)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Completed != visible[j].Completed {
			return !visible[i].Completed
		}
		return visible[i].Priority < visible[j].Priority
	})
	return visible
}

func Count(allTasks []model.Task, view View, status StatusFilter, today time.Time) int {
	count := 0
	for _, task := range allTasks {
		if Member(task, view, today) && status.Matches(task) {
			count++
		}
	}
	return count
}
