package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m4l0n6/task-quest-gamify/internal/ui"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tq",
		Short:         "Task Quest: a gamified task tracker",
		Long:          "Task Quest turns your to-do list into a game: earn XP and tokens, level up, keep a login streak, unlock badges and spend tokens in the store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().String("store", "", "Storage backend (sqlite|memory|redis); overrides TQ_STORE")
	cmd.PersistentFlags().String("db", "", "SQLite database path; overrides TQ_DB_PATH")

	cmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newAddCmd(),
		newEditCmd(),
		newRmCmd(),
		newDoCmd(),
		newListCmd(),
		newStatusCmd(),
		newDailyCmd(),
		newRankCmd(),
		newBadgesCmd(),
		newInboxCmd(),
		newReadCmd(),
		newStoreCmd(),
		newBuyCmd(),
		newUseCmd(),
		newBoardCmd(),
		newServeCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
