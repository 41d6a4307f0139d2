package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/todobreeze/internal/model"
	"github.com/Joseda-hg/todobreeze/internal/visibility"
)

func addCmd(flags *globalFlags) *cobra.Command {
	var (
		priority int
		project  string
		due      string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the Inbox or a project",
		Long: `Add a task. Without --project the task lands in the Inbox.

Examples:
  todobreeze add Buy milk
  todobreeze add "Quarterly report" --project Work --priority 1 --due 2024-04-01
  todobreeze add Call mom --due today`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			cfg.DefaultView = project
			cfg.DefaultStatus = visibility.All.String()
			b, err := newBoard(cfg, store)
			if err != nil {
				return err
			}

			dueDate, err := parseDueFlag(due, b.Today())
			if err != nil {
				return err
			}

			task, added, err := b.AddTask(cmd.Context(), title, priority)
			if err != nil {
				return err
			}
			if !added {
				return errors.New("title is required")
			}
			notice := b.Notice()
			if dueDate != nil {
				if task, err = b.SetDueDate(cmd.Context(), task.ID, dueDate); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", notice, task.Title, task.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&priority, "priority", "p", model.DefaultPriority, "priority from 1 (highest) to 4")
	cmd.Flags().StringVar(&project, "project", "", "project name or id")
	cmd.Flags().StringVar(&due, "due", "", "due date as YYYY-MM-DD or today")
	return cmd
}

func parseDueFlag(value string, today time.Time) (*time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(value), "today") {
		return &today, nil
	}
	return model.ParseDate(value)
}
