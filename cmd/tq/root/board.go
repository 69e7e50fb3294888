package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		Args:  cobra.NoArgs,
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
			return tui.RunBoard(ctx, a.engine, sess, cmd.OutOrStdout())
		},
	}

	return cmd
}
