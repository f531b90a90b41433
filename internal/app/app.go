package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/heartmarshall/burnki/internal/adapter/export/xlsx"
	"github.com/heartmarshall/burnki/internal/adapter/notify"
	"github.com/heartmarshall/burnki/internal/adapter/provider/wanikani"
	"github.com/heartmarshall/burnki/internal/app/syncjob"
	"github.com/heartmarshall/burnki/internal/config"
	"github.com/heartmarshall/burnki/internal/domain"
	"github.com/heartmarshall/burnki/internal/service/reconcile"
	"github.com/heartmarshall/burnki/internal/service/records"
)

// App wires the remote client, record builder, reconciler, store and
// notifiers behind the CLI commands.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	store  Store
	runner *syncjob.Runner
}

// New opens the store and assembles the sync pipeline. Progress and
// notifications are printed to out.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*App, error) {
	store, err := OpenStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	notifier := newNotifier(cfg.Notify, logger, out)
	notifyCtx := context.WithoutCancel(ctx)

	client := wanikani.NewClient(cfg.WaniKani, logger)
	builder := records.NewBuilder(logger, client)
	reconciler := reconcile.NewReconciler(logger, store, cfg.Sync.DeckName, cfg.Sync.NoteTypeName)

	runner := syncjob.NewRunner(logger, builder, reconciler, store, syncjob.Hooks{
		Progress: func(msg string) {
			fmt.Fprintln(out, msg)
		},
		Notify: func(msg string) {
			if err := notifier.Notify(notifyCtx, msg); err != nil {
				logger.WarnContext(notifyCtx, "notify failed", slog.String("error", err.Error()))
			}
		},
	})

	logger.InfoContext(ctx, "app ready",
		slog.String("version", BuildVersion()),
		slog.String("store", cfg.Store.Driver),
	)

	return &App{cfg: cfg, log: logger, store: store, runner: runner}, nil
}

func newNotifier(cfg config.NotifyConfig, logger *slog.Logger, out io.Writer) notify.Notifier {
	notifiers := notify.Multi{notify.NewConsole(out)}
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Warn("telegram notifications disabled", slog.String("error", err.Error()))
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	return notifiers
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// Settings builds the per-invocation sync settings from the config and the
// persisted cursor.
func (a *App) Settings(ctx context.Context) (syncjob.Settings, error) {
	return a.runner.Settings(ctx, syncjob.Settings{
		Token:             a.cfg.WaniKani.APIToken,
		DownloadAudio:     a.cfg.Sync.DownloadAudio,
		AutoSyncOnStartup: a.cfg.Sync.AutoSyncOnStartup,
	})
}

// Sync runs an incremental sync, or a full re-sync when full is set.
func (a *App) Sync(ctx context.Context, full bool) (syncjob.Outcome, error) {
	s, err := a.Settings(ctx)
	if err != nil {
		return syncjob.Outcome{}, err
	}
	if full {
		return a.runner.FullResync(ctx, s), nil
	}
	return a.runner.SyncNow(ctx, s), nil
}

// AutoSync runs the startup sync when enabled in the config.
func (a *App) AutoSync(ctx context.Context) (syncjob.Outcome, error) {
	s, err := a.Settings(ctx)
	if err != nil {
		return syncjob.Outcome{}, err
	}
	return a.runner.AutoSync(ctx, s), nil
}

// Export writes every note of the Burnki note type to an xlsx file and
// returns the number of notes written.
func (a *App) Export(ctx context.Context, path string) (int, error) {
	fields := domain.NoteFieldNames()
	var notes []domain.Note

	nt, err := a.store.NoteTypeByName(ctx, a.cfg.Sync.NoteTypeName)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.log.InfoContext(ctx, "export: note type not created yet", slog.String("note_type", a.cfg.Sync.NoteTypeName))
	case err != nil:
		return 0, fmt.Errorf("export: %w", err)
	default:
		fields = nt.Fields
		if notes, err = a.store.ListNotes(ctx, nt.ID); err != nil {
			return 0, fmt.Errorf("export: %w", err)
		}
	}

	if err := xlsx.WriteFile(path, fields, notes); err != nil {
		return 0, err
	}
	a.log.InfoContext(ctx, "export written", slog.String("path", path), slog.Int("notes", len(notes)))
	return len(notes), nil
}
