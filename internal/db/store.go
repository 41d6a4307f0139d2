package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sqlc "github.com/Joseda-hg/todobreeze/internal/db/sqlc"
	"github.com/Joseda-hg/todobreeze/internal/model"
)

var ErrNotFound = errors.New("not found")

// PersistenceError is returned by every Store operation that fails.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}

type Store struct {
	DB      *sql.DB
	Queries *sqlc.Queries

	owner    string
	postgres bool
	now      func() time.Time
}

type TaskInput struct {
	Title     string
	Completed bool
	Priority  int
	ProjectID string
	DueDate   *time.Time
}

type ProjectInput struct {
	Name  string
	Color string
}

func NewStore(db *sql.DB) *Store {
	s := &Store{DB: db, postgres: isPostgres(db), now: time.Now}
	s.Queries = sqlc.New(s.conn(db))
	return s
}

// WithOwner returns a store whose reads and writes are limited to owner.
func (s *Store) WithOwner(owner string) *Store {
	scoped := *s
	scoped.owner = strings.TrimSpace(owner)
	return &scoped
}

func (s *Store) Owner() string {
	return s.owner
}

func (s *Store) conn(db sqlc.DBTX) sqlc.DBTX {
	if s.postgres {
		return rebinder{inner: db}
	}
	return db
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) CreateTask(ctx context.Context, input TaskInput) (model.Task, error) {
	const op = "create task"

	input, err := s.validateTask(ctx, input)
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}

	now := s.timestamp()
	id := uuid.NewString()
	err = s.Queries.CreateTask(ctx, sqlc.CreateTaskParams{
		ID:        id,
		Owner:     s.owner,
		Title:     input.Title,
		Completed: input.Completed,
		Priority:  int64(input.Priority),
		ProjectID: nullString(input.ProjectID),
		DueDate:   nullDate(input.DueDate),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}
	if err := s.addHistory(ctx, task.ID, "created", formatCreatedDetails(task)); err != nil {
		return model.Task{}, wrapErr(op, err)
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	row, err := s.Queries.GetTask(ctx, sqlc.GetTaskParams{ID: taskID, Owner: s.owner})
	if err != nil {
		return model.Task{}, wrapErr("get task", err)
	}
	return mapTask(row), nil
}

func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.Queries.ListTasks(ctx, s.owner)
	if err != nil {
		return nil, wrapErr("list tasks", err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTask(row))
	}
	return tasks, nil
}

// UpdateTask replaces every editable field of the task.
func (s *Store) UpdateTask(ctx context.Context, taskID string, input TaskInput) (model.Task, error) {
	const op = "update task"

	before, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}

	input, err = s.validateTask(ctx, input)
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}

	affected, err := s.Queries.UpdateTask(ctx, sqlc.UpdateTaskParams{
		Title:     input.Title,
		Completed: input.Completed,
		Priority:  int64(input.Priority),
		ProjectID: nullString(input.ProjectID),
		DueDate:   nullDate(input.DueDate),
		UpdatedAt: s.timestamp(),
		ID:        taskID,
		Owner:     s.owner,
	})
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}

	if affected == 0 {
		return model.Task{}, wrapErr(op, ErrNotFound)
	}

	after, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, wrapErr(op, err)
	}
	if err := s.addHistory(ctx, after.ID, "updated", formatTaskDiff(before, after)); err != nil {
		return model.Task{}, wrapErr(op, err)
	}
	return after, nil
}

func (s *Store) SetCompleted(ctx context.Context, taskID string, completed bool) (model.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, wrapErr("set completed", err)
	}
	input := InputFromTask(task)
	input.Completed = completed
	return s.UpdateTask(ctx, taskID, input)
}

// SetDueDate sets or, when due is nil, clears the due date.
func (s *Store) SetDueDate(ctx context.Context, taskID string, due *time.Time) (model.Task, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, wrapErr("set due date", err)
	}
	input := InputFromTask(task)
	input.DueDate = due
	return s.UpdateTask(ctx, taskID, input)
}

func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	const op = "delete task"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := sqlc.New(s.conn(tx))

	row, err := queries.GetTask(ctx, sqlc.GetTaskParams{ID: taskID, Owner: s.owner})
	if err != nil {
		return wrapErr(op, err)
	}
	before := mapTask(row)

	affected, err := queries.DeleteTask(ctx, sqlc.DeleteTaskParams{ID: taskID, Owner: s.owner})
	if err != nil {
		return wrapErr(op, err)
	}
	if affected == 0 {
		return wrapErr(op, ErrNotFound)
	}

	// Logged only once the row is gone, in the same transaction.
	if err := queries.AddHistory(ctx, sqlc.AddHistoryParams{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Owner:     s.owner,
		EventType: "deleted",
		Details:   formatDeletedDetails(before),
		CreatedAt: s.timestamp(),
	}); err != nil {
		return wrapErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

func (s *Store) ListHistory(ctx context.Context, taskID string) ([]model.HistoryEntry, error) {
	rows, err := s.Queries.ListHistoryByTask(ctx, sqlc.ListHistoryByTaskParams{TaskID: taskID, Owner: s.owner})
	if err != nil {
		return nil, wrapErr("list history", err)
	}

	history := make([]model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		history = append(history, model.HistoryEntry{
			ID:        row.ID,
			TaskID:    row.TaskID,
			EventType: row.EventType,
			Details:   row.Details,
			CreatedAt: row.CreatedAt,
		})
	}
	return history, nil
}

func (s *Store) CreateProject(ctx context.Context, input ProjectInput) (model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Project{}, wrapErr("create project", model.ErrEmptyProjectName)
	}

	id := uuid.NewString()
	err := s.Queries.CreateProject(ctx, sqlc.CreateProjectParams{
		ID:        id,
		Owner:     s.owner,
		Name:      name,
		Color:     strings.TrimSpace(input.Color),
		CreatedAt: s.timestamp(),
	})
	if err != nil {
		return model.Project{}, wrapErr("create project", err)
	}

	created, err := s.Queries.GetProject(ctx, sqlc.GetProjectParams{ID: id, Owner: s.owner})
	if err != nil {
		return model.Project{}, wrapErr("create project", err)
	}
	return mapProject(created), nil
}

func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.Queries.ListProjects(ctx, s.owner)
	if err != nil {
		return nil, wrapErr("list projects", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, mapProject(row))
	}
	return projects, nil
}

// DeleteProject removes the project and moves its tasks back to the inbox.
// It returns the number of tasks that were unassigned.
func (s *Store) DeleteProject(ctx context.Context, projectID string) (int, error) {
	const op = "delete project"

	if model.IsReserved(projectID) {
		return 0, wrapErr(op, fmt.Errorf("%s is a built-in view", projectID))
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := sqlc.New(s.conn(tx))

	project, err := queries.GetProject(ctx, sqlc.GetProjectParams{ID: projectID, Owner: s.owner})
	if err != nil {
		return 0, wrapErr(op, err)
	}

	rows, err := queries.ListTasksByProject(ctx, sqlc.ListTasksByProjectParams{
		ProjectID: nullString(projectID),
		Owner:     s.owner,
	})
	if err != nil {
		return 0, wrapErr(op, err)
	}

	now := s.timestamp()
	if _, err := queries.ClearProjectFromTasks(ctx, sqlc.ClearProjectFromTasksParams{
		UpdatedAt: now,
		ProjectID: nullString(projectID),
		Owner:     s.owner,
	}); err != nil {
		return 0, wrapErr(op, err)
	}

	for _, row := range rows {
		details := "updated: " + formatChange("project", project.Name, "")
		if err := queries.AddHistory(ctx, sqlc.AddHistoryParams{
			ID:        uuid.NewString(),
			TaskID:    row.ID,
			Owner:     s.owner,
			EventType: "updated",
			Details:   details,
			CreatedAt: now,
		}); err != nil {
			return 0, wrapErr(op, err)
		}
	}

	if _, err := queries.DeleteProject(ctx, sqlc.DeleteProjectParams{ID: projectID, Owner: s.owner}); err != nil {
		return 0, wrapErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, wrapErr(op, err)
	}
	return len(rows), nil
}

func (s *Store) validateTask(ctx context.Context, input TaskInput) (TaskInput, error) {
	title, err := model.NormalizeTitle(input.Title)
	if err != nil {
		return TaskInput{}, err
	}
	input.Title = title

	priority, err := model.NormalizePriority(input.Priority)
	if err != nil {
		return TaskInput{}, err
	}
	input.Priority = priority

	input.ProjectID = strings.TrimSpace(input.ProjectID)
	if model.IsReserved(input.ProjectID) {
		input.ProjectID = ""
	}
	if input.ProjectID != "" {
		if _, err := s.Queries.GetProject(ctx, sqlc.GetProjectParams{ID: input.ProjectID, Owner: s.owner}); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return TaskInput{}, fmt.Errorf("project %s: %w", input.ProjectID, ErrNotFound)
			}
			return TaskInput{}, err
		}
	}

	if input.DueDate != nil {
		due := model.DateOnly(*input.DueDate)
		input.DueDate = &due
	}
	return input, nil
}

func (s *Store) addHistory(ctx context.Context, taskID, eventType, details string) error {
	return s.Queries.AddHistory(ctx, sqlc.AddHistoryParams{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Owner:     s.owner,
		EventType: eventType,
		Details:   details,
		CreatedAt: s.timestamp(),
	})
}

func InputFromTask(task model.Task) TaskInput {
	return TaskInput{
		Title:     task.Title,
		Completed: task.Completed,
		Priority:  task.Priority,
		ProjectID: task.ProjectID,
		DueDate:   task.DueDate,
	}
}

func mapTask(row sqlc.Task) model.Task {
	task := model.Task{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
		Priority:  int(row.Priority),
		Owner:     row.Owner,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ProjectID.Valid {
		task.ProjectID = row.ProjectID.String
	}
	if row.DueDate.Valid {
		// An unparsable stored date is treated as no due date.
		if due, err := model.ParseDate(row.DueDate.String); err == nil {
			task.DueDate = due
		}
	}
	return task
}

func mapProject(row sqlc.Project) model.Project {
	return model.Project{
		ID:        row.ID,
		Name:      row.Name,
		Color:     row.Color,
		Owner:     row.Owner,
		CreatedAt: row.CreatedAt,
	}
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullDate(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: value.Format(model.DateLayout), Valid: true}
}
