package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Joseda-hg/todobreeze/internal/model"
)

type exportDocument struct {
	ExportedAt time.Time       `json:"exportedAt" yaml:"exported_at"`
	Projects   []exportProject `json:"projects" yaml:"projects"`
	Tasks      []exportTask    `json:"tasks" yaml:"tasks"`
}

type exportProject struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type exportTask struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Completed bool      `json:"completed" yaml:"completed"`
	Priority  int       `json:"priority" yaml:"priority"`
	Project   string    `json:"project,omitempty" yaml:"project,omitempty"`
	DueDate   string    `json:"dueDate,omitempty" yaml:"due_date,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

func exportCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every project and task to stdout as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			projects, err := store.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			tasks, err := store.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), format, buildExport(projects, tasks, time.Now().UTC()))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json or yaml)")
	return cmd
}

func buildExport(projects []model.Project, tasks []model.Task, now time.Time) exportDocument {
	doc := exportDocument{
		ExportedAt: now,
		Projects:   make([]exportProject, 0, len(projects)),
		Tasks:      make([]exportTask, 0, len(tasks)),
	}
	for _, project := range projects {
		doc.Projects = append(doc.Projects, exportProject{ID: project.ID, Name: project.Name, Color: project.Color})
	}
	for _, task := range tasks {
		doc.Tasks = append(doc.Tasks, exportTask{
			ID:        task.ID,
			Title:     task.Title,
			Completed: task.Completed,
			Priority:  task.Priority,
			Project:   task.ProjectID,
			DueDate:   model.FormatDate(task.DueDate),
			CreatedAt: task.CreatedAt,
			UpdatedAt: task.UpdatedAt,
		})
	}
	return doc
}

func writeExport(w io.Writer, format string, doc exportDocument) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q, use json or yaml", format)
	}
}
