package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Joseda-hg/todobreeze/internal/db"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

var errBadRequest = errors.New("bad request")

type tasksResponse struct {
	View        string       `json:"view"`
	ProjectName string       `json:"projectName"`
	Status      string       `json:"status"`
	Count       int          `json:"count"`
	Tasks       []model.Task `json:"tasks"`
}

type taskResponse struct {
	Task    model.Task           `json:"task"`
	History []model.HistoryEntry `json:"history"`
}

type createTaskRequest struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
	View     string `json:"view"`
}

// updateTaskRequest carries only the fields being changed. A null dueDate
// clears the due date; an absent one leaves it alone.
type updateTaskRequest struct {
	Title     *string         `json:"title"`
	Completed *bool           `json:"completed"`
	Priority  *int            `json:"priority"`
	Project   *string         `json:"project"`
	DueDate   json.RawMessage `json:"dueDate"`
}

type createProjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) apiListTasks(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{
		View:        b.View().String(),
		ProjectName: b.ProjectName(b.View()),
		Status:      b.Status().String(),
		Count:       b.Count(),
		Tasks:       b.Visible(),
	})
}

func (s *Server) apiCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if req.View != "" {
		b.Select(visibility.ParseView(req.View))
	}

	task, added, err := b.AddTask(r.Context(), req.Title, req.Priority)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if !added {
		writeError(w, http.StatusBadRequest, model.ErrEmptyTitle)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) apiGetTask(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	id := mux.Vars(r)["id"]
	task, ok := b.Task(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %s: %w", id, db.ErrNotFound))
		return
	}

	history, err := b.History(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Task: task, History: history})
}

func (s *Server) apiUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	id := mux.Vars(r)["id"]
	task, ok := b.Task(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("task %s: %w", id, db.ErrNotFound))
		return
	}

	input := db.InputFromTask(task)
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Completed != nil {
		input.Completed = *req.Completed
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
		if !model.ValidPriority(input.Priority) {
			writeError(w, http.StatusBadRequest, model.ErrInvalidPriority)
			return
		}
	}
	if req.Project != nil {
		input.ProjectID = *req.Project
	}
	if len(req.DueDate) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.DueDate), []byte("null")) {
			input.DueDate = nil
		} else {
			var value string
			if err := json.Unmarshal(req.DueDate, &value); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("%w: dueDate must be a YYYY-MM-DD string or null", errBadRequest))
				return
			}
			due, err := model.ParseDate(value)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			input.DueDate = due
		}
	}

	updated, err := b.UpdateTask(r.Context(), id, input)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) apiDeleteTask(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := b.DeleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiListProjects(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, b.Projects())
}

func (s *Server) apiCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	project, err := b.AddProject(r.Context(), req.Name)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (s *Server) apiDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if model.IsReserved(id) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s is a built-in view", errBadRequest, id))
		return
	}

	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := b.DeleteProject(r.Context(), id); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
