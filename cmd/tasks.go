package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskmaster/internal/task"
	"github.com/nibzard/taskmaster/internal/view"
)

func newAddCmd() *cobra.Command {
	var priorityFlag, dueFlag string
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			priority, err := task.ParsePriority(priorityFlag)
			if err != nil {
				return err
			}
			var due *time.Time
			if dueFlag != "" {
				d, err := task.ParseDueDate(dueFlag)
				if err != nil {
					return err
				}
				due = &d
			}

			t, err := a.store.Add(args[0], priority)
			if err != nil {
				return err
			}
			if due != nil {
				if t, err = a.store.SetDueDate(t.ID, due); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s: %s\n", shortID(t.ID), t.Description)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priorityFlag, "priority", "p", "medium", "priority: low, medium, or high")
	cmd.Flags().StringVarP(&dueFlag, "due", "u", "", "due date (YYYY-MM-DD or RFC 3339)")
	return cmd
}

func newListCmd() *cobra.Command {
	var filterFlag, sortFlag, searchFlag string
	var descFlag bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			filter, ok := view.ParseFilter(filterFlag)
			if !ok {
				return fmt.Errorf("unknown filter %q, must be one of: all, pending, done", filterFlag)
			}
			sortKey, ok := view.ParseSort(sortFlag)
			if !ok {
				return fmt.Errorf("unknown sort key %q, must be one of: created, priority, alpha", sortFlag)
			}

			tasks := a.store.View(view.Params{
				Filter:     filter,
				Sort:       sortKey,
				Descending: descFlag,
				Query:      searchFlag,
			})
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tST\tPRIO\tDUE\tDESCRIPTION")
			for _, t := range tasks {
				mark := " "
				if t.Status == task.StatusDone {
					mark = "x"
				}
				due := "-"
				if t.DueDate != nil {
					due = t.DueDate.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), mark, t.Priority, due, t.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&filterFlag, "filter", "f", "all", "status filter: all, pending, or done")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "created", "sort key: created, priority, or alpha")
	cmd.Flags().BoolVar(&descFlag, "desc", false, "sort in descending order")
	cmd.Flags().StringVarP(&searchFlag, "search", "q", "", "case-insensitive description search")
	return cmd
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			id, err := resolveID(a.store, args[0])
			if err != nil {
				return err
			}
			t, err := a.store.ToggleStatus(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(t.ID), t.Status)
			return nil
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			id, err := resolveID(a.store, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Remove(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", shortID(id))
			return nil
		},
	}
}

func newDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <date|none>",
		Short: "Set or clear a task's due date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			id, err := resolveID(a.store, args[0])
			if err != nil {
				return err
			}
			if args[1] == "none" {
				if _, err := a.store.SetDueDate(id, nil); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared due date on %s\n", shortID(id))
				return nil
			}
			due, err := task.ParseDueDate(args[1])
			if err != nil {
				return err
			}
			if _, err := a.store.SetDueDate(id, &due); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s due %s\n", shortID(id), due.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Remove all done tasks from the active collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			removed, err := a.store.ArchiveDone()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %d task(s)\n", removed)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, true)
			if err != nil {
				return err
			}
			s := a.store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total:      %d\n", s.Total)
			fmt.Fprintf(out, "pending:    %d\n", s.Pending)
			fmt.Fprintf(out, "done:       %d\n", s.Done)
			fmt.Fprintf(out, "overdue:    %d\n", s.Overdue)
			fmt.Fprintf(out, "completion: %d%%\n", int(s.CompletionRatio*100))
			return nil
		},
	}
}

// shortID trims a uuid to its first group for display; full ids still
// work everywhere an id is accepted.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
