package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/todobreeze/internal/db"
	"github.com/Joseda-hg/todobreeze/internal/model"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func TestAPIListTasksReturnsOrderedTasks(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	createTask(t, store, db.TaskInput{Title: "Low", Priority: 3})
	done := createTask(t, store, db.TaskInput{Title: "Done", Priority: 1})
	createTask(t, store, db.TaskInput{Title: "Urgent", Priority: 1})
	if _, err := store.SetCompleted(context.Background(), done.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}

	handler := NewServer(store, WithClock(func() time.Time { return fixedNow })).Handler()

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks?view=inbox", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload tasksResponse
	decodeBody(t, rec, &payload)
	titles := taskTitles(payload.Tasks)
	if strings.Join(titles, ",") != "Urgent,Low,Done" {
		t.Fatalf("unexpected order %v", titles)
	}
	if payload.Count != 3 || payload.ProjectName != "Inbox" || payload.Status != "all" {
		t.Fatalf("unexpected header fields %+v", payload)
	}

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks?status=active", nil))
	decodeBody(t, rec, &payload)
	if payload.Count != 2 {
		t.Fatalf("expected 2 active tasks, got %d", payload.Count)
	}
}

func TestAPICreateTaskFilesIntoView(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store, WithClock(func() time.Time { return fixedNow })).Handler()

	rec := serve(handler, jsonRequest(http.MethodPost, "/api/projects", `{"name":"Work"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var project model.Project
	decodeBody(t, rec, &project)
	if project.Color == "" {
		t.Fatalf("expected a palette color")
	}

	rec = serve(handler, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Report","priority":2,"view":"`+project.ID+`"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var task model.Task
	decodeBody(t, rec, &task)
	if task.ProjectID != project.ID || task.Priority != 2 {
		t.Fatalf("unexpected task %+v", task)
	}

	rec = serve(handler, jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Standup","view":"today"}`))
	decodeBody(t, rec, &task)
	if task.DueDate == nil || task.DueDate.Format(model.DateLayout) != "2024-03-15" {
		t.Fatalf("expected today's due date, got %v", task.DueDate)
	}

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks?view=today", nil))
	var payload tasksResponse
	decodeBody(t, rec, &payload)
	if payload.Count != 1 || payload.Tasks[0].Title != "Standup" {
		t.Fatalf("expected standup in today, got %+v", payload.Tasks)
	}
}

func TestAPIUpdateTask(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store).Handler()
	created := createTask(t, store, db.TaskInput{Title: "Patch me"})

	rec := serve(handler, jsonRequest(http.MethodPatch, "/api/tasks/"+created.ID, `{"completed":true,"dueDate":"2024-06-01","priority":1}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var task model.Task
	decodeBody(t, rec, &task)
	if !task.Completed || task.Priority != 1 || model.FormatDate(task.DueDate) != "2024-06-01" {
		t.Fatalf("unexpected task %+v", task)
	}
	if task.Title != "Patch me" {
		t.Fatalf("expected title to be kept, got %q", task.Title)
	}

	rec = serve(handler, jsonRequest(http.MethodPatch, "/api/tasks/"+created.ID, `{"dueDate":null}`))
	decodeBody(t, rec, &task)
	if task.DueDate != nil {
		t.Fatalf("expected due date cleared, got %v", task.DueDate)
	}
	if !task.Completed {
		t.Fatalf("expected completion to be kept")
	}

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks/"+created.ID, nil))
	var detail taskResponse
	decodeBody(t, rec, &detail)
	if len(detail.History) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(detail.History))
	}
}

func TestAPIUpdateAcceptsDueDateItReturns(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store).Handler()
	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	created := createTask(t, store, db.TaskInput{Title: "Echo me", DueDate: &due})

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var listed struct {
		Tasks []map[string]json.RawMessage `json:"tasks"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(listed.Tasks))
	}
	returned := listed.Tasks[0]
	if string(returned["dueDate"]) != `"2024-05-01"` {
		t.Fatalf("expected calendar date, got %s", returned["dueDate"])
	}

	body := `{"title":` + string(returned["title"]) +
		`,"completed":` + string(returned["completed"]) +
		`,"priority":` + string(returned["priority"]) +
		`,"dueDate":` + string(returned["dueDate"]) + `}`
	rec = serve(handler, jsonRequest(http.MethodPatch, "/api/tasks/"+created.ID, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 echoing the task back, got %d: %s", rec.Code, rec.Body.String())
	}
	var task model.Task
	decodeBody(t, rec, &task)
	if model.FormatDate(task.DueDate) != "2024-05-01" || task.Title != "Echo me" {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestAPIErrors(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store).Handler()
	created := createTask(t, store, db.TaskInput{Title: "Exists"})

	cases := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"unknown status", httptest.NewRequest(http.MethodGet, "/api/tasks?status=later", nil), http.StatusBadRequest},
		{"unknown task", httptest.NewRequest(http.MethodGet, "/api/tasks/missing", nil), http.StatusNotFound},
		{"delete unknown task", httptest.NewRequest(http.MethodDelete, "/api/tasks/missing", nil), http.StatusNotFound},
		{"blank title", jsonRequest(http.MethodPost, "/api/tasks", `{"title":"  "}`), http.StatusBadRequest},
		{"bad json", jsonRequest(http.MethodPost, "/api/tasks", `{"title":`), http.StatusBadRequest},
		{"bad priority", jsonRequest(http.MethodPatch, "/api/tasks/"+created.ID, `{"priority":9}`), http.StatusBadRequest},
		{"bad due date", jsonRequest(http.MethodPatch, "/api/tasks/"+created.ID, `{"dueDate":"tomorrow"}`), http.StatusBadRequest},
		{"blank project", jsonRequest(http.MethodPost, "/api/projects", `{"name":""}`), http.StatusBadRequest},
		{"delete inbox", httptest.NewRequest(http.MethodDelete, "/api/projects/inbox", nil), http.StatusBadRequest},
		{"delete unknown project", httptest.NewRequest(http.MethodDelete, "/api/projects/missing", nil), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(handler, tc.req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body map[string]string
			decodeBody(t, rec, &body)
			if body["error"] == "" {
				t.Fatalf("expected error message in body")
			}
		})
	}
}

func TestAPIDeleteProjectMovesTasksToInbox(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store).Handler()

	project, err := store.CreateProject(context.Background(), db.ProjectInput{Name: "Home"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	createTask(t, store, db.TaskInput{Title: "Laundry", ProjectID: project.ID})

	rec := serve(handler, httptest.NewRequest(http.MethodDelete, "/api/projects/"+project.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	var payload tasksResponse
	decodeBody(t, rec, &payload)
	if payload.Count != 1 || payload.Tasks[0].Title != "Laundry" {
		t.Fatalf("expected laundry in inbox, got %+v", payload.Tasks)
	}
}

func TestFormPostsRedirectWithNotice(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	handler := NewServer(store).Handler()

	form := url.Values{"title": {"From the page"}, "priority": {"2"}, "view": {"inbox"}, "status": {"active"}}
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(handler, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	location, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	query := location.Query()
	if query.Get("view") != "inbox" || query.Get("status") != "active" {
		t.Fatalf("expected view and status preserved, got %q", location.RawQuery)
	}
	if query.Get("notice") != "Task added successfully" {
		t.Fatalf("unexpected notice %q", query.Get("notice"))
	}

	rec = serve(handler, httptest.NewRequest(http.MethodGet, "/?view=inbox", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "From the page") || !strings.Contains(body, "1 tasks") {
		t.Fatalf("expected page to list the new task")
	}

	req = httptest.NewRequest(http.MethodPost, "/tasks/missing/toggle", strings.NewReader("view=inbox"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(handler, req)
	location, _ = url.Parse(rec.Header().Get("Location"))
	if !strings.HasPrefix(location.Query().Get("notice"), "Error updating task:") {
		t.Fatalf("expected failure notice, got %q", location.Query().Get("notice"))
	}
}

func TestAuthScopesRequestsToTokenSubject(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()
	const secret = "test-secret"
	handler := NewServer(store, WithAuthSecret(secret)).Handler()

	rec := serve(handler, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	forged, err := NewToken("other-secret", "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	if rec := serve(handler, req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}

	alice, err := NewToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	bob, err := NewToken(secret, "bob", time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req = jsonRequest(http.MethodPost, "/api/tasks", `{"title":"Alice task"}`)
	req.Header.Set("Authorization", "Bearer "+alice)
	if rec := serve(handler, req); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: alice})
	rec = serve(handler, req)
	var payload tasksResponse
	decodeBody(t, rec, &payload)
	if payload.Count != 1 {
		t.Fatalf("expected alice to see her task, got %d", payload.Count)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+bob)
	rec = serve(handler, req)
	decodeBody(t, rec, &payload)
	if payload.Count != 0 {
		t.Fatalf("expected bob to see no tasks, got %d", payload.Count)
	}
}

func TestNewTokenValidation(t *testing.T) {
	if _, err := NewToken("", "alice", time.Hour); err == nil {
		t.Fatalf("expected error without secret")
	}
	if _, err := NewToken("secret", " ", time.Hour); err == nil {
		t.Fatalf("expected error without subject")
	}
}

func newTestStore(t *testing.T) (*db.Store, func()) {
	t.Helper()
	sqlDB, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db.NewStore(sqlDB), func() {
		_ = sqlDB.Close()
	}
}

func createTask(t *testing.T, store *db.Store, input db.TaskInput) model.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), input)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func taskTitles(tasks []model.Task) []string {
	titles := make([]string, 0, len(tasks))
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	return titles
}
