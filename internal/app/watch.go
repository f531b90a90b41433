package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Watch runs the startup auto-sync, then an incremental sync every
// sync.watch_interval until ctx is cancelled. Runs never overlap.
func (a *App) Watch(ctx context.Context) error {
	if _, err := a.AutoSync(ctx); err != nil {
		return err
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(a.cfg.Sync.WatchInterval).WaitForSchedule().Do(func() {
		if _, err := a.Sync(ctx, false); err != nil {
			a.log.ErrorContext(ctx, "scheduled sync", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}

	a.log.InfoContext(ctx, "watching", slog.Duration("interval", a.cfg.Sync.WatchInterval))
	s.StartAsync()
	<-ctx.Done()
	s.Stop()
	return nil
}
