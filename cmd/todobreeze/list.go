package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Joseda-hg/todobreeze/internal/board"
	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#dc4c3e")).
			Padding(0, 1)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	doneStyle  = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#a0a0a0"))
	dueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#058527"))

	priorityColors = map[int]lipgloss.Color{
		1: lipgloss.Color("#d1453b"),
		2: lipgloss.Color("#eb8909"),
		3: lipgloss.Color("#246fe0"),
		4: lipgloss.Color("#808080"),
	}
)

func listCmd(flags *globalFlags) *cobra.Command {
	var (
		viewFlag   string
		statusFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tasks visible in a view",
		Long: `Print the tasks of a view in display order.

Examples:
  todobreeze list
  todobreeze list --view today --status active
  todobreeze list --view Work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if viewFlag != "" {
				cfg.DefaultView = viewFlag
			}
			if statusFlag != "" {
				cfg.DefaultStatus = statusFlag
			}

			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			b, err := newBoard(cfg, store)
			if err != nil {
				return err
			}
			renderList(cmd.OutOrStdout(), b)
			return nil
		},
	}

	cmd.Flags().StringVar(&viewFlag, "view", "", "inbox, today, or a project name or id")
	cmd.Flags().StringVar(&statusFlag, "status", "", "all, active or completed")
	return cmd
}

func renderList(w io.Writer, b *board.Board) {
	view := b.View()
	fmt.Fprintf(w, "%s %s\n\n", titleStyle.Render(b.ProjectName(view)), countStyle.Render(fmt.Sprintf("%d tasks (%s)", b.Count(), b.Status())))

	visible := b.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(w, countStyle.Render("No tasks here."))
		return
	}

	names := make(map[string]string)
	for _, project := range b.StoredProjects() {
		names[project.ID] = project.Name
	}
	for _, task := range visible {
		fmt.Fprintln(w, formatListLine(task, view, names))
	}
}

func formatListLine(task model.Task, view visibility.View, projectNames map[string]string) string {
	check := "[ ]"
	title := task.Title
	if task.Completed {
		check = "[x]"
		title = doneStyle.Render(title)
	}
	priority := lipgloss.NewStyle().Foreground(priorityColors[task.Priority]).Render(fmt.Sprintf("P%d", task.Priority))

	parts := []string{check, priority, title}
	if task.DueDate != nil {
		parts = append(parts, dueStyle.Render(model.FormatDate(task.DueDate)))
	}
	if name, ok := projectNames[task.ProjectID]; ok && view.ProjectID() == "" {
		parts = append(parts, countStyle.Render("#"+name))
	}
	return strings.Join(parts, "  ")
}
