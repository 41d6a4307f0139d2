package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	InboxID = "inbox"
	TodayID = "today"
)

const (
	PriorityHighest = 1
	PriorityLowest  = 4
	DefaultPriority = PriorityLowest
)

var (
	ErrEmptyTitle       = errors.New("task title is required")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 4")
	ErrEmptyProjectName = errors.New("project name is required")
)

// ProjectColors is the palette new projects pick their color from.
var ProjectColors = []string{"#9b87f5", "#e44332", "#ff9a14", "#4073ff", "#25b84c"}

type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Priority  int        `json:"priority"`
	ProjectID string     `json:"project,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Owner     string     `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type taskAlias Task

// MarshalJSON writes dueDate as a YYYY-MM-DD calendar date.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		taskAlias
		DueDate string `json:"dueDate,omitempty"`
	}{taskAlias: taskAlias(t), DueDate: FormatDate(t.DueDate)})
}

func (t *Task) UnmarshalJSON(data []byte) error {
	wire := struct {
		*taskAlias
		DueDate string `json:"dueDate"`
	}{taskAlias: (*taskAlias)(t)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	due, err := ParseDate(wire.DueDate)
	if err != nil {
		return err
	}
	t.DueDate = due
	return nil
}

// Unassigned reports whether the task belongs to no project.
func (t Task) Unassigned() bool {
	return strings.TrimSpace(t.ProjectID) == ""
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Owner     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reserved reports whether the project is one of the built-in pseudo-projects.
func (p Project) Reserved() bool {
	return IsReserved(p.ID)
}

func IsReserved(id string) bool {
	return id == InboxID || id == TodayID
}

// ReservedProjects are never stored and always listed first.
func ReservedProjects() []Project {
	return []Project{
		{ID: InboxID, Name: "Inbox"},
		{ID: TodayID, Name: "Today"},
	}
}

type HistoryEntry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	EventType string    `json:"eventType"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

func ValidPriority(priority int) bool {
	return priority >= PriorityHighest && priority <= PriorityLowest
}

// NormalizePriority maps the zero value to the default priority.
func NormalizePriority(priority int) (int, error) {
	if priority == 0 {
		return DefaultPriority, nil
	}
	if !ValidPriority(priority) {
		return 0, ErrInvalidPriority
	}
	return priority, nil
}

func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrEmptyTitle
	}
	return trimmed, nil
}

// DateOnly strips the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

const DateLayout = "2006-01-02"

func ParseDate(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return nil, errors.New("invalid date, use YYYY-MM-DD")
	}
	return &parsed, nil
}

func FormatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(DateLayout)
}
