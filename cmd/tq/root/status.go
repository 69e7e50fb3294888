package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/catalog"
	"github.com/m4l0n6/task-quest-gamify/internal/engine"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player stats",
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
			u, err := a.engine.CurrentUser(ctx, sess)
			if err != nil {
				return err
			}
			rank, err := a.engine.UserRank(ctx, sess)
			if err != nil {
				return err
			}
			today, err := a.engine.TodayTaskCount(ctx, sess)
			if err != nil {
				return err
			}
			badges, err := a.engine.UnlockedBadgeCount(ctx)
			if err != nil {
				return err
			}
			unread, err := a.engine.UnreadCount(ctx)
			if err != nil {
				return err
			}

			progress := engine.XPProgress(u.XP, u.Level)
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Player Status"))
			fmt.Fprintln(out, ui.LabelValue("Player", u.Username))
			fmt.Fprintln(out, ui.LabelValue("Level", u.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d %s %d%% (next at %d)", u.XP, ui.ProgressBar(progress, 100, 20), progress, engine.XPForNextLevel(u.Level))))
			fmt.Fprintln(out, ui.LabelValue("Tokens", ui.Tokens(u.Tokens)))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d days", ui.IconFire, u.DailyLoginStreak)))
			fmt.Fprintln(out, ui.LabelValue("Completed", u.CompletedTasks))
			fmt.Fprintln(out, ui.LabelValue("Rank", fmt.Sprintf("#%d", rank)))
			fmt.Fprintln(out, ui.LabelValue("Badges", badges))
			fmt.Fprintln(out, ui.LabelValue("Created today", fmt.Sprintf("%d/%d", today, engine.MaxTasksPerDay)))
			fmt.Fprintln(out, ui.LabelValue("Unread", unread))

			for _, typ := range []string{catalog.ItemTheme, catalog.ItemAvatar} {
				it, err := a.shop.Active(ctx, sess, typ)
				if err != nil {
					return err
				}
				if it != nil {
					fmt.Fprintln(out, ui.LabelValue("Active "+typ, it.Title))
				}
			}
			return nil
		},
	}

	return cmd
}
