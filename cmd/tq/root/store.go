package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/shop"
	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

func newStoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Browse the token store",
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
			items, err := a.shop.Items(ctx, sess)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconCart, "Store"), ui.Tokens(u.Tokens))
			for _, it := range items {
				fmt.Fprintf(out, "%s %-24s %-8s %s %s\n", itemState(it), ui.Key.Render(it.ID), it.Type, ui.Tokens(it.Price), ui.Muted.Render(it.Title))
			}
			return nil
		},
	}
}

func itemState(it shop.Item) string {
	switch {
	case it.IsActive:
		return ui.Good.Render("[on] ")
	case it.IsPurchased:
		return ui.Muted.Render("[own]")
	case it.IsLocked:
		return ui.IconLock + "   "
	default:
		return "     "
	}
}

func newBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy a store item with tokens",
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
			if _, err := a.shop.Purchase(ctx, sess, args[0]); err != nil {
				return err
			}
			u, err := a.engine.CurrentUser(ctx, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Bought %s. %s left\n", ui.IconCart, ui.Key.Render(args[0]), ui.Tokens(u.Tokens))
			return nil
		},
	}
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <item-id>",
		Short: "Toggle a purchased item on or off",
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
			ok, err := a.shop.Activate(ctx, sess, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("you don't own %q; see `tq store`", args[0])
			}
			owned, err := a.shop.Items(ctx, sess)
			if err != nil {
				return err
			}
			for _, it := range owned {
				if it.ID == args[0] {
					state := "off"
					if it.IsActive {
						state = "on"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", ui.IconSparkle, it.Title, state)
				}
			}
			return nil
		},
	}
}
