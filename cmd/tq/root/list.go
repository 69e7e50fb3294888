package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newListCmd() *cobra.Command {
	var filter, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := engine.ParseTaskFilter(filter)
			if !ok {
				return fmt.Errorf("unknown filter %q (all|active|completed)", filter)
			}
			o, ok := engine.ParseTaskSort(order)
			if !ok {
				return fmt.Errorf("unknown sort %q (newest|oldest|xp-high|xp-low|deadline)", order)
			}

			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			sess, err := a.begin(ctx, out)
			if err != nil {
				return err
			}
			tasks, err := a.engine.ListTasks(ctx, sess, f, o)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Quest Log"))
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			now := clock.Now()
			for _, t := range tasks {
				due := ""
				if t.Deadline != nil {
					label := "due " + t.Deadline.In(a.cfg.Location).Format("Jan 2 15:04")
					if !t.Completed && t.Deadline.Before(now) {
						due = " " + ui.Bad.Render("overdue")
					} else {
						due = " " + ui.Muted.Render(label)
					}
				}
				fmt.Fprintf(out, "%s %s %s %s%s\n", ui.Check(t.Completed), ui.Key.Render(shortID(t.ID)), t.Title,
					ui.Muted.Render(fmt.Sprintf("(%d XP)", t.XPReward)), due)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "active", "all|active|completed")
	cmd.Flags().StringVarP(&order, "sort", "s", "newest", "newest|oldest|xp-high|xp-low|deadline")
	return cmd
}
