package web

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Joseda-hg/todobreeze/internal/board"
	"github.com/Joseda-hg/todobreeze/internal/db"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.New("index.tmpl").Funcs(template.FuncMap{
	"due": func(value *time.Time) string { return model.FormatDate(value) },
}).ParseFS(templateFS, "templates/index.tmpl"))

type Server struct {
	store  *db.Store
	secret []byte
	now    func() time.Time
}

type Option func(*Server)

// WithAuthSecret enables bearer-token identity. An empty secret keeps the
// server in single-user mode.
func WithAuthSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func NewServer(store *db.Store, opts ...Option) *Server {
	s := &Server{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(logRequests)
	if s.secret != nil {
		router.Use(s.authenticate)
	}

	router.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)
	router.HandleFunc("/tasks", s.addTaskHandler).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/toggle", s.toggleTaskHandler).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/due", s.dueTodayHandler).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{id}/delete", s.deleteTaskHandler).Methods(http.MethodPost)
	router.HandleFunc("/projects", s.addProjectHandler).Methods(http.MethodPost)
	router.HandleFunc("/projects/{id}/delete", s.deleteProjectHandler).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", s.apiListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.apiCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", s.apiGetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", s.apiUpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", s.apiDeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/projects", s.apiListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.apiCreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.apiDeleteProject).Methods(http.MethodDelete)
	return router
}

// boardFor loads a board scoped to the request owner with the view and
// status taken from the query string or form.
func (s *Server) boardFor(r *http.Request) (*board.Board, error) {
	b := board.New(s.store.WithOwner(ownerFrom(r.Context())), board.WithClock(s.now))
	if err := b.Load(r.Context()); err != nil {
		return nil, err
	}

	b.Select(visibility.ParseView(r.FormValue("view")))
	status, err := visibility.ParseStatusFilter(r.FormValue("status"))
	if err != nil {
		return nil, err
	}
	b.SetStatus(status)
	return b, nil
}

type projectLink struct {
	Project  model.Project
	Selected bool
	Stored   bool
}

type statusLink struct {
	Name     string
	Selected bool
}

type indexData struct {
	View        string
	ProjectName string
	Status      string
	Count       int
	Projects    []projectLink
	Statuses    []statusLink
	Tasks       []model.Task
	Notice      string
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	data := indexData{
		View:        b.View().String(),
		ProjectName: b.ProjectName(b.View()),
		Status:      b.Status().String(),
		Count:       b.Count(),
		Tasks:       b.Visible(),
		Notice:      r.URL.Query().Get("notice"),
	}
	for _, project := range b.Projects() {
		data.Projects = append(data.Projects, projectLink{
			Project:  project,
			Selected: project.ID == data.View,
			Stored:   !project.Reserved(),
		})
	}
	for _, filter := range []visibility.StatusFilter{visibility.All, visibility.Active, visibility.Completed} {
		data.Statuses = append(data.Statuses, statusLink{Name: filter.String(), Selected: filter == b.Status()})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) addTaskHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		redirectBack(w, r, "Error adding task: "+err.Error())
		return
	}

	priority, err := parsePriority(r.FormValue("priority"))
	if err != nil {
		redirectBack(w, r, "Error adding task: "+err.Error())
		return
	}

	if _, _, err := b.AddTask(r.Context(), r.FormValue("title"), priority); err != nil {
		redirectBack(w, r, "Error adding task: "+err.Error())
		return
	}
	redirectBack(w, r, b.Notice())
}

func (s *Server) toggleTaskHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, "Error updating task: ", func(b *board.Board, id string) error {
		_, err := b.ToggleComplete(r.Context(), id)
		return err
	})
}

func (s *Server) dueTodayHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, "Error updating due date: ", func(b *board.Board, id string) error {
		_, err := b.ToggleDueToday(r.Context(), id)
		return err
	})
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	s.mutateTask(w, r, "Error deleting task: ", func(b *board.Board, id string) error {
		return b.DeleteTask(r.Context(), id)
	})
}

func (s *Server) mutateTask(w http.ResponseWriter, r *http.Request, failure string, apply func(*board.Board, string) error) {
	b, err := s.boardFor(r)
	if err != nil {
		redirectBack(w, r, failure+err.Error())
		return
	}
	if err := apply(b, mux.Vars(r)["id"]); err != nil {
		redirectBack(w, r, failure+err.Error())
		return
	}
	redirectBack(w, r, b.Notice())
}

func (s *Server) addProjectHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		redirectBack(w, r, "Error adding project: "+err.Error())
		return
	}

	project, err := b.AddProject(r.Context(), r.FormValue("name"))
	if err != nil {
		redirectBack(w, r, "Error adding project: "+err.Error())
		return
	}
	redirectTo(w, r, project.ID, b.Status().String(), b.Notice())
}

func (s *Server) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.boardFor(r)
	if err != nil {
		redirectBack(w, r, "Error deleting project: "+err.Error())
		return
	}

	if err := b.DeleteProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		redirectBack(w, r, "Error deleting project: "+err.Error())
		return
	}
	redirectTo(w, r, b.View().String(), b.Status().String(), b.Notice())
}

func redirectBack(w http.ResponseWriter, r *http.Request, notice string) {
	redirectTo(w, r, r.FormValue("view"), r.FormValue("status"), notice)
}

func redirectTo(w http.ResponseWriter, r *http.Request, view, status, notice string) {
	values := url.Values{}
	if view != "" {
		values.Set("view", view)
	}
	if status != "" {
		values.Set("status", status)
	}
	if notice != "" {
		values.Set("notice", notice)
	}

	target := "/"
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func parsePriority(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.DefaultPriority, nil
	}
	priority, err := strconv.Atoi(value)
	if err != nil || !model.ValidPriority(priority) {
		return 0, model.ErrInvalidPriority
	}
	return priority, nil
}

// statusFor maps board and store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, board.ErrUnknownTask), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrInvalidPriority),
		errors.Is(err, model.ErrEmptyProjectName),
		errors.Is(err, visibility.ErrUnknownStatusFilter),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
