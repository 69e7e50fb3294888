package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			id, err := a.resolveTaskID(ctx, sess, args[0])
			if err != nil {
				return err
			}
			res, err := a.engine.CompleteTask(ctx, sess, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s %s %s %s\n", ui.IconDone, res.Task.Title,
				ui.Good.Render(fmt.Sprintf("+%d XP", res.XPGained)), ui.Tokens(res.TokensGained))
			if res.LevelUp {
				fmt.Fprintf(out, "%s %s level %d → %d\n", ui.IconSparkle, ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			for _, b := range res.UnlockedBadges {
				fmt.Fprintf(out, "%s Badge unlocked: %s %s\n", ui.IconTrophy, b.Icon, ui.Gold.Render(b.Name))
			}
			for _, d := range res.DailyCompleted {
				fmt.Fprintf(out, "%s Daily challenge done: %s %s\n", ui.IconBolt, d.Title, ui.Tokens(d.TokenReward))
			}
			return nil
		},
	}

	return cmd
}
