package visibility

import (
	"math/rand/v2"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

func date(value string) *time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func ids(tasks []model.Task) []string {
	result := make([]string, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, task.ID)
	}
	return result
}

func scenarioTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "one", Completed: false, Priority: 2},
		{ID: "2", Title: "two", Completed: true, Priority: 1},
		{ID: "3", Title: "three", Completed: false, Priority: 1},
	}
}

func TestVisibleTasksScenarios(t *testing.T) {
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)

	t.Run("inbox all", func(t *testing.T) {
		got := ids(VisibleTasks(scenarioTasks(), Inbox, All, today))
		want := []string{"3", "1", "2"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("inbox active", func(t *testing.T) {
		got := ids(VisibleTasks(scenarioTasks(), Inbox, Active, today))
		want := []string{"3", "1"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("inbox completed", func(t *testing.T) {
		got := ids(VisibleTasks(scenarioTasks(), Inbox, Completed, today))
		want := []string{"2"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("today", func(t *testing.T) {
		tasks := []model.Task{
			{ID: "A", Priority: 4, DueDate: date("2024-05-01"), ProjectID: "work"},
			{ID: "B", Priority: 1, DueDate: date("2024-05-02")},
			{ID: "C", Priority: 1},
		}
		got := ids(VisibleTasks(tasks, Today, All, today))
		want := []string{"A"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("project", func(t *testing.T) {
		tasks := []model.Task{
			{ID: "w1", Priority: 3, ProjectID: "work"},
			{ID: "p1", Priority: 1, ProjectID: "personal"},
			{ID: "w2", Priority: 1, ProjectID: "work", Completed: true},
			{ID: "w3", Priority: 2, ProjectID: "work"},
			{ID: "u1", Priority: 1},
		}
		got := ids(VisibleTasks(tasks, ProjectView("work"), All, today))
		want := []string{"w3", "w1", "w2"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})
}

func TestInboxHoldsOnlyUnassignedTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: 4},
		{ID: "b", Priority: 4, ProjectID: "work"},
		{ID: "c", Priority: 4, ProjectID: "  "},
	}
	got := ids(VisibleTasks(tasks, Inbox, All, time.Now()))
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDanglingProjectIsExcluded(t *testing.T) {
	tasks := []model.Task{{ID: "a", Priority: 1, ProjectID: "gone"}}
	if got := VisibleTasks(tasks, ProjectView("work"), All, time.Now()); len(got) != 0 {
		t.Fatalf("expected no tasks, got %v", ids(got))
	}
}

func TestTodayIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	today := time.Date(2024, 5, 1, 23, 30, 0, 0, loc)
	late := time.Date(2024, 5, 1, 18, 45, 0, 0, loc)
	tasks := []model.Task{
		{ID: "a", Priority: 4, DueDate: date("2024-05-01")},
		{ID: "b", Priority: 4, DueDate: &late},
		{ID: "c", Priority: 4, DueDate: date("2024-04-30")},
	}
	got := ids(VisibleTasks(tasks, Today, All, today))
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestVisibleTasksDoesNotMutateInput(t *testing.T) {
	tasks := scenarioTasks()
	before := append([]model.Task(nil), tasks...)
	_ = VisibleTasks(tasks, Inbox, All, time.Now())
	if !reflect.DeepEqual(tasks, before) {
		t.Fatalf("expected input to be unchanged")
	}
}

func TestVisibleTasksEmpty(t *testing.T) {
	got := VisibleTasks(nil, Inbox, All, time.Now())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestVisibleTasksProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	projects := []string{"", "work", "personal"}
	views := []View{Inbox, Today, ProjectView("work"), ProjectView("personal")}
	filters := []StatusFilter{All, Active, Completed}

	for round := 0; round < 200; round++ {
		count := rng.IntN(30)
		tasks := make([]model.Task, 0, count)
		for i := 0; i < count; i++ {
			task := model.Task{
				ID:        strconv.Itoa(i),
				Completed: rng.IntN(2) == 0,
				Priority:  rng.IntN(4) + 1,
				ProjectID: projects[rng.IntN(len(projects))],
			}
			if rng.IntN(2) == 0 {
				task.DueDate = date("2024-05-0" + strconv.Itoa(rng.IntN(3)+1))
			}
			tasks = append(tasks, task)
		}

		for _, view := range views {
			for _, filter := range filters {
				got := VisibleTasks(tasks, view, filter, today)

				want := make(map[string]struct{})
				for _, task := range tasks {
					if expectVisible(task, view, filter) {
						want[task.ID] = struct{}{}
					}
				}
				expected := len(want)
				if len(got) != expected {
					t.Fatalf("round %d %s/%s: expected %d tasks, got %d", round, view, filter, expected, len(got))
				}
				for _, task := range got {
					if _, ok := want[task.ID]; !ok {
						t.Fatalf("round %d %s/%s: unexpected task %+v", round, view, filter, task)
					}
				}
				if Count(tasks, view, filter, today) != expected {
					t.Fatalf("round %d %s/%s: count mismatch", round, view, filter)
				}

				seen := make(map[string]struct{}, len(got))
				position := make(map[string]int, len(tasks))
				for i, task := range tasks {
					position[task.ID] = i
				}
				for i, task := range got {
					if _, dup := seen[task.ID]; dup {
						t.Fatalf("round %d: duplicate task %s", round, task.ID)
					}
					seen[task.ID] = struct{}{}
					if i == 0 {
						continue
					}
					prev := got[i-1]
					if prev.Completed && !task.Completed {
						t.Fatalf("round %d: completed task %s before active task %s", round, prev.ID, task.ID)
					}
					if prev.Completed == task.Completed {
						if prev.Priority > task.Priority {
							t.Fatalf("round %d: priority %d before %d", round, prev.Priority, task.Priority)
						}
						if prev.Priority == task.Priority && position[prev.ID] > position[task.ID] {
							t.Fatalf("round %d: equal keys reordered (%s, %s)", round, prev.ID, task.ID)
						}
					}
				}

				again := VisibleTasks(tasks, view, filter, today)
				if !reflect.DeepEqual(ids(got), ids(again)) {
					t.Fatalf("round %d: expected identical output on repeat", round)
				}
			}
		}
	}
}

func TestParseStatusFilter(t *testing.T) {
	cases := map[string]StatusFilter{
		"":          All,
		"all":       All,
		"Active":    Active,
		"completed": Completed,
		"done":      Completed,
	}
	for input, want := range cases {
		got, err := ParseStatusFilter(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}

	if _, err := ParseStatusFilter("later"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestUnknownFilterBehavesLikeAll(t *testing.T) {
	got := VisibleTasks(scenarioTasks(), Inbox, StatusFilter(42), time.Now())
	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
}

func TestParseView(t *testing.T) {
	if ParseView("") != Inbox {
		t.Fatalf("expected empty view to be inbox")
	}
	if ParseView(" today ") != Today {
		t.Fatalf("expected today view")
	}
	if got := ParseView("abc").ProjectID(); got != "abc" {
		t.Fatalf("expected project id abc, got %q", got)
	}
	if Today.ProjectID() != "" {
		t.Fatalf("expected reserved view to have no project id")
	}
}

// expectVisible restates the membership rules for tasks dated in May 2024
// with today being 2024-05-01.
func expectVisible(task model.Task, view View, filter StatusFilter) bool {
	switch filter {
	case Active:
		if task.Completed {
			return false
		}
	case Completed:
		if !task.Completed {
			return false
		}
	}
	switch string(view) {
	case "today":
		return task.DueDate != nil && task.DueDate.Format("2006-01-02") == "2024-05-01"
	case "inbox":
		return task.ProjectID == ""
	default:
		return task.ProjectID == string(view)
	}
}
