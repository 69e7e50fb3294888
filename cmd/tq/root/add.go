package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newAddCmd() *cobra.Command {
	var desc string
	var xp int
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sess, err := a.begin(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			in := engine.CreateTaskInput{
				Title:       strings.Join(args, " "),
				Description: desc,
				XPReward:    xp,
			}
			if due != "" {
				d, err := parseDeadline(due, clock.Now(), a.cfg.Location)
				if err != nil {
					return err
				}
				in.Deadline = &d
			}
			t, err := a.engine.CreateTask(ctx, sess, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconPlus, ui.Key.Render(shortID(t.ID)), t.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d XP, +%d tokens)", t.XPReward, t.TokenReward)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().IntVarP(&xp, "xp", "x", 10, fmt.Sprintf("XP reward (%d-%d)", engine.MinTaskXP, engine.MaxTaskXP))
	cmd.Flags().StringVar(&due, "due", "", "Deadline (2006-01-02, \"2006-01-02 15:04\", RFC 3339 or a duration like 36h)")
	return cmd
}
