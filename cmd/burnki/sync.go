package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/burnki/internal/app"
	"github.com/heartmarshall/burnki/internal/app/syncjob"
)

var errSyncFailed = errors.New("sync failed")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch newly burned items and update the collection",
	Long: `Fetch items burned since the last successful sync and upsert them into
the collection. With --full every burned item is fetched again and existing
notes are refreshed.

Examples:
  burnki sync
  burnki sync --full`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().Bool("full", false, "Re-fetch every burned item, ignoring the saved cursor")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	full, _ := cmd.Flags().GetBool("full")

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		outcome, err := a.Sync(ctx, full)
		if err != nil {
			return err
		}
		return outcomeErr(outcome)
	})
}

// outcomeErr turns a failed run into a non-zero exit. The user has already
// been notified of the reason.
func outcomeErr(o syncjob.Outcome) error {
	switch o.Status {
	case syncjob.StatusFailed, syncjob.StatusNoToken:
		return errSyncFailed
	}
	return nil
}
