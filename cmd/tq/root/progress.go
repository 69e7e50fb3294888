package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newDailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if _, err := a.begin(ctx, out); err != nil {
				return err
			}
			tasks, err := a.engine.DailyTasks(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBolt, "Daily Challenges"))
			for _, d := range tasks {
				fmt.Fprintf(out, "%s %s %s %s %s\n", ui.Check(d.Completed), d.Title,
					ui.ProgressBar(d.Progress, d.Requirement, 10), ui.Tokens(d.TokenReward),
					ui.Muted.Render(d.Description+", ends "+d.ExpiresAt.In(a.cfg.Location).Format("Mon 15:04")))
			}
			return nil
		},
	}
}

func newRankCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
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
			board, err := a.engine.Leaderboard(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Leaderboard"))
			for _, e := range board {
				if limit > 0 && e.Rank > limit && e.UserID != sess.UserID {
					continue
				}
				line := fmt.Sprintf("#%-3d %-20s L%-3d %d XP", e.Rank, e.Username, e.Level, e.XP)
				if e.UserID == sess.UserID {
					line = ui.Gold.Render(line + "  ← you")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "top", "n", 10, "Show only the top N (you are always shown)")
	return cmd
}

func newBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show badges and which are unlocked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if _, err := a.begin(ctx, out); err != nil {
				return err
			}
			badges, err := a.engine.Badges(ctx)
			if err != nil {
				return err
			}
			unlocked, err := a.engine.UnlockedBadgeCount(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Badges (%d/%d)", unlocked, len(badges))))
			for _, b := range badges {
				if b.Unlocked() {
					fmt.Fprintf(out, "%s %s %s\n", b.Icon, ui.Gold.Render(b.Name),
						ui.Muted.Render(b.Description+", "+b.UnlockedAt.In(a.cfg.Location).Format("Jan 2")))
					continue
				}
				fmt.Fprintf(out, "%s %s %s\n", ui.IconLock, ui.Muted.Render(b.Name), ui.Muted.Render(b.Description))
			}
			return nil
		},
	}
}
