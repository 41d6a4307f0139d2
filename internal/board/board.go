// Package board keeps an in-memory mirror of one owner's tasks and projects
// together with the current view selection.
package board

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Joseda-hg/todobreeze/internal/db"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

var ErrUnknownTask = errors.New("unknown task")

// Store is the persistence the board needs. *db.Store satisfies it.
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateTask(ctx context.Context, input db.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, taskID string, input db.TaskInput) (model.Task, error)
	SetCompleted(ctx context.Context, taskID string, completed bool) (model.Task, error)
	SetDueDate(ctx context.Context, taskID string, due *time.Time) (model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	ListHistory(ctx context.Context, taskID string) ([]model.HistoryEntry, error)
	CreateProject(ctx context.Context, input db.ProjectInput) (model.Project, error)
	DeleteProject(ctx context.Context, projectID string) (int, error)
}

type Board struct {
	store Store

	tasks    []model.Task
	projects []model.Project
	view     visibility.View
	status   visibility.StatusFilter
	notice   string

	now       func() time.Time
	pickColor func(n int) int
}

type Option func(*Board)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// WithColorPicker replaces the random palette choice for new projects.
func WithColorPicker(pick func(n int) int) Option {
	return func(b *Board) {
		b.pickColor = pick
	}
}

func New(store Store, opts ...Option) *Board {
	b := &Board{
		store:     store,
		view:      visibility.Inbox,
		status:    visibility.All,
		now:       time.Now,
		pickColor: rand.IntN,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the mirror with the store contents. On failure the previous
// mirror is kept.
func (b *Board) Load(ctx context.Context) error {
	projects, err := b.store.ListProjects(ctx)
	if err != nil {
		return err
	}
	tasks, err := b.store.ListTasks(ctx)
	if err != nil {
		return err
	}
	b.projects = projects
	b.tasks = tasks
	return nil
}

func (b *Board) Select(view visibility.View) {
	b.view = view
}

func (b *Board) SetStatus(status visibility.StatusFilter) {
	b.status = status
}

func (b *Board) View() visibility.View {
	return b.view
}

func (b *Board) Status() visibility.StatusFilter {
	return b.status
}

func (b *Board) Today() time.Time {
	return visibility.Midnight(b.now())
}

// Visible returns the ordered tasks of the current view and status filter.
func (b *Board) Visible() []model.Task {
	return visibility.VisibleTasks(b.tasks, b.view, b.status, b.Today())
}

func (b *Board) Count() int {
	return visibility.Count(b.tasks, b.view, b.status, b.Today())
}

// Tasks returns a copy of every mirrored task.
func (b *Board) Tasks() []model.Task {
	return append([]model.Task(nil), b.tasks...)
}

// Projects lists the reserved pseudo-projects followed by the stored ones.
func (b *Board) Projects() []model.Project {
	projects := model.ReservedProjects()
	return append(projects, b.projects...)
}

// StoredProjects lists only the user's own projects.
func (b *Board) StoredProjects() []model.Project {
	return append([]model.Project(nil), b.projects...)
}

// ProjectName is the display name of a view. Unknown views show as "All Tasks".
func (b *Board) ProjectName(view visibility.View) string {
	for _, project := range b.Projects() {
		if project.ID == string(view) {
			return project.Name
		}
	}
	return "All Tasks"
}

func (b *Board) Task(taskID string) (model.Task, bool) {
	index := b.indexOf(taskID)
	if index < 0 {
		return model.Task{}, false
	}
	return b.tasks[index], true
}

// Notice is the message left by the last successful mutation.
func (b *Board) Notice() string {
	return b.notice
}

// AddTask files a new task into the current view. Blank titles are ignored.
func (b *Board) AddTask(ctx context.Context, title string, priority int) (model.Task, bool, error) {
	if strings.TrimSpace(title) == "" {
		return model.Task{}, false, nil
	}

	input := db.TaskInput{Title: title, Priority: priority}
	switch b.view {
	case visibility.Inbox:
	case visibility.Today:
		today := model.DateOnly(b.Today())
		input.DueDate = &today
	default:
		input.ProjectID = b.view.ProjectID()
	}

	created, err := b.store.CreateTask(ctx, input)
	if err != nil {
		return model.Task{}, false, err
	}
	b.tasks = append(b.tasks, created)
	b.notice = "Task added successfully"
	return created, true, nil
}

func (b *Board) ToggleComplete(ctx context.Context, taskID string) (model.Task, error) {
	index := b.indexOf(taskID)
	if index < 0 {
		return model.Task{}, ErrUnknownTask
	}

	updated, err := b.store.SetCompleted(ctx, taskID, !b.tasks[index].Completed)
	if err != nil {
		return model.Task{}, err
	}
	b.tasks[index] = updated
	if updated.Completed {
		b.notice = "Task completed"
	} else {
		b.notice = "Task reopened"
	}
	return updated, nil
}

// SetDueDate sets the due date, or clears it when due is nil.
func (b *Board) SetDueDate(ctx context.Context, taskID string, due *time.Time) (model.Task, error) {
	index := b.indexOf(taskID)
	if index < 0 {
		return model.Task{}, ErrUnknownTask
	}

	updated, err := b.store.SetDueDate(ctx, taskID, due)
	if err != nil {
		return model.Task{}, err
	}
	b.tasks[index] = updated
	if due != nil {
		b.notice = "Due date set"
	} else {
		b.notice = "Due date removed"
	}
	return updated, nil
}

// ToggleDueToday clears a due date of today, otherwise sets it to today.
func (b *Board) ToggleDueToday(ctx context.Context, taskID string) (model.Task, error) {
	task, ok := b.Task(taskID)
	if !ok {
		return model.Task{}, ErrUnknownTask
	}

	today := model.DateOnly(b.Today())
	if task.DueDate != nil && model.DateOnly(*task.DueDate).Equal(today) {
		return b.SetDueDate(ctx, taskID, nil)
	}
	return b.SetDueDate(ctx, taskID, &today)
}

// UpdateTask replaces the editable fields of a task.
func (b *Board) UpdateTask(ctx context.Context, taskID string, input db.TaskInput) (model.Task, error) {
	index := b.indexOf(taskID)
	if index < 0 {
		return model.Task{}, ErrUnknownTask
	}

	updated, err := b.store.UpdateTask(ctx, taskID, input)
	if err != nil {
		return model.Task{}, err
	}
	b.tasks[index] = updated
	b.notice = "Task updated"
	return updated, nil
}

func (b *Board) DeleteTask(ctx context.Context, taskID string) error {
	index := b.indexOf(taskID)
	if index < 0 {
		return ErrUnknownTask
	}

	if err := b.store.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	b.tasks = append(b.tasks[:index:index], b.tasks[index+1:]...)
	b.notice = "Task deleted"
	return nil
}

func (b *Board) History(ctx context.Context, taskID string) ([]model.HistoryEntry, error) {
	if b.indexOf(taskID) < 0 {
		return nil, ErrUnknownTask
	}
	return b.store.ListHistory(ctx, taskID)
}

// AddProject creates a project with a color from the palette.
func (b *Board) AddProject(ctx context.Context, name string) (model.Project, error) {
	color := model.ProjectColors[b.pickColor(len(model.ProjectColors))]
	created, err := b.store.CreateProject(ctx, db.ProjectInput{Name: name, Color: color})
	if err != nil {
		return model.Project{}, err
	}
	b.projects = append(b.projects, created)
	b.notice = "Project added"
	return created, nil
}

// DeleteProject removes the project and moves its tasks to the inbox.
// Deleting the selected project selects the inbox.
func (b *Board) DeleteProject(ctx context.Context, projectID string) error {
	index := -1
	for i, project := range b.projects {
		if project.ID == projectID {
			index = i
			break
		}
	}
	if index < 0 {
		return db.ErrNotFound
	}

	if _, err := b.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	b.projects = append(b.projects[:index:index], b.projects[index+1:]...)
	for i := range b.tasks {
		if b.tasks[i].ProjectID == projectID {
			b.tasks[i].ProjectID = ""
		}
	}
	if b.view == visibility.ProjectView(projectID) {
		b.view = visibility.Inbox
	}
	b.notice = "Project deleted"
	return nil
}

func (b *Board) indexOf(taskID string) int {
	for i, task := range b.tasks {
		if task.ID == taskID {
			return i
		}
	}
	return -1
}
