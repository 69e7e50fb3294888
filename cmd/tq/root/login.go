package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/session"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newLoginCmd() *cobra.Command {
	var userID string
	var initData string

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Sign in (locally, or with Telegram WebApp initData)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var provider session.IdentityProvider
			credential := ""
			if initData != "" {
				provider = session.TelegramProvider{
					BotToken: a.cfg.BotToken,
					MaxAge:   a.cfg.InitDataMaxAge,
					Clock:    clock,
				}
				credential = initData
			} else {
				p := a.localProvider()
				if userID != "" {
					p.Profile.ID = userID
				}
				if len(args) == 1 {
					credential = args[0]
				}
				provider = p
			}

			res, err := a.sessions.Login(ctx, provider, credential)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.NewUser {
				fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Welcome, "+res.User.Username+"!"))
			} else {
				fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Welcome back, "+res.User.Username+"!"))
			}
			printStart(out, res, a.cfg.Location)
			fmt.Fprintln(out, ui.LabelValue("Level", res.User.Level), " ", ui.Tokens(res.User.Tokens))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "id", "", "Local user id (defaults to TQ_USER_ID)")
	cmd.Flags().StringVar(&initData, "telegram", "", "Telegram WebApp initData query string")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in user on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := a.sessions.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Logged out."))
			return nil
		},
	}
}
