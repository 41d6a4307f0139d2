package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

type formKind int

const (
	formTask formKind = iota
	formProject
)

func (k formKind) title(viewName string) string {
	if k == formProject {
		return "New project"
	}
	return "New task in " + viewName
}

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldPriority
)

const fieldName = 0

const priorityLabel = "Priority (1-4, space/←→)"

func buildTaskFormFields() []formField {
	return []formField{
		{Label: "Title"},
		{Label: priorityLabel, Value: strconv.Itoa(model.DefaultPriority)},
	}
}

func buildProjectFormFields() []formField {
	return []formField{
		{Label: "Name"},
	}
}

func isPriorityField(label string) bool {
	return label == priorityLabel
}

func parseTaskForm(fields []formField) (string, int, error) {
	title, err := model.NormalizeTitle(fields[fieldTitle].Value)
	if err != nil {
		return "", 0, err
	}
	priority, err := parsePriority(fields[fieldPriority].Value)
	if err != nil {
		return "", 0, err
	}
	return title, priority, nil
}

func parsePriority(value string) (int, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), "p")
	if trimmed == "" {
		return model.DefaultPriority, nil
	}
	priority, err := strconv.Atoi(trimmed)
	if err != nil || !model.ValidPriority(priority) {
		return 0, fmt.Errorf("priority must be between %d and %d", model.PriorityHighest, model.PriorityLowest)
	}
	return priority, nil
}

// cyclePriority steps through P1..P4, wrapping at either end.
func cyclePriority(value string, step int) string {
	current, err := parsePriority(value)
	if err != nil {
		current = model.DefaultPriority
	}
	span := model.PriorityLowest - model.PriorityHighest + 1
	next := (current-model.PriorityHighest+step+span)%span + model.PriorityHighest
	return strconv.Itoa(next)
}
