package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/burnki/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync on startup, then periodically until interrupted",
	Long: `Run the startup sync (when sync.auto_sync_on_startup is set), then an
incremental sync every sync.watch_interval. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Watch(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
