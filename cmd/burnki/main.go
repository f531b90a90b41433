// Command burnki copies burned WaniKani items into a local flashcard
// collection.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/burnki/internal/app"
	"github.com/heartmarshall/burnki/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "burnki",
	Short: "Sync burned WaniKani items into a local flashcard collection",
	Long: `Burnki fetches every WaniKani item you have burned, builds one flashcard
note per item (characters, meanings, readings, your synonyms and notes,
context sentences and audio) and upserts it into a local collection.

Configuration is read from burnki.yaml (or CONFIG_PATH), a .env file and
the environment. The API token goes in wanikani.api_token or
WANIKANI_API_TOKEN.`,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp loads the config, builds the App and closes it after fn returns.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Log)
	ctx := cmd.Context()

	a, err := app.New(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
