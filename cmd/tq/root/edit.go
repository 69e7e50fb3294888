package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newEditCmd() *cobra.Command {
	var title, desc, due string
	var xp int
	var noDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an open task",
		Args:  cobra.ExactArgs(1),
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
			id, err := a.resolveTaskID(ctx, sess, args[0])
			if err != nil {
				return err
			}

			var p engine.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				p.Title = &title
			}
			if flags.Changed("desc") {
				p.Description = &desc
			}
			if flags.Changed("xp") {
				p.XPReward = &xp
			}
			if flags.Changed("due") {
				d, err := parseDeadline(due, clock.Now(), a.cfg.Location)
				if err != nil {
					return err
				}
				p.Deadline = &d
			}
			p.ClearDeadline = noDue
			if p == (engine.TaskPatch{}) {
				return errors.New("nothing to change; pass --title, --desc, --xp, --due or --no-due")
			}

			t, err := a.engine.UpdateTask(ctx, sess, id, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconInfo, ui.Key.Render(shortID(t.ID)), t.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d XP, +%d tokens)", t.XPReward, t.TokenReward)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, "New XP reward")
	cmd.Flags().StringVar(&due, "due", "", "New deadline")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "Remove the deadline")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an open task",
		Args:  cobra.ExactArgs(1),
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
			id, err := a.resolveTaskID(ctx, sess, args[0])
			if err != nil {
				return err
			}
			if err := a.engine.DeleteTask(ctx, sess, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted "+shortID(id)+"."))
			return nil
		},
	}
}
