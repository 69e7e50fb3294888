package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newInboxCmd() *cobra.Command {
	var unreadOnly bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show notifications",
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
			ns, err := a.engine.Notifications(ctx)
			if err != nil {
				return err
			}
			unread, err := a.engine.UnreadCount(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconBell, fmt.Sprintf("Inbox (%d unread)", unread)))
			for _, n := range ns {
				if unreadOnly && n.Read {
					continue
				}
				msg := n.Message
				if !n.Read {
					msg = ui.Key.Render(msg)
				}
				fmt.Fprintf(out, "%s %s %s %s\n", ui.NotificationIcon(n.Type), ui.Muted.Render(shortID(n.ID)), msg,
					ui.Muted.Render(n.CreatedAt.In(a.cfg.Location).Format("Jan 2 15:04")))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&unreadOnly, "unread", "u", false, "Only unread notifications")
	return cmd
}

func newReadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark a notification (or all with --all) as read",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("pass an id or --all, not both")
			}
			if !all && len(args) != 1 {
				return errors.New("notification id is required")
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

			if _, err := a.begin(ctx, cmd.OutOrStdout()); err != nil {
				return err
			}
			if all {
				if err := a.engine.MarkAllRead(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("All caught up."))
				return nil
			}
			id, err := a.resolveNotificationID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.engine.MarkRead(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Marked "+shortID(id)+" as read."))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Mark every notification as read")
	return cmd
}

func (a *app) resolveNotificationID(ctx context.Context, arg string) (string, error) {
	ns, err := a.engine.Notifications(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, n := range ns {
		if n.ID == arg {
			return n.ID, nil
		}
		if len(arg) >= 4 && len(n.ID) >= len(arg) && n.ID[:len(arg)] == arg {
			if match != "" {
				return "", fmt.Errorf("notification id %q is ambiguous", arg)
			}
			match = n.ID
		}
	}
	if match == "" {
		// Let the engine report the unknown id.
		return arg, nil
	}
	return match, nil
}
