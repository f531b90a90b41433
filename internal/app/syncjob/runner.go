// Package syncjob hosts the sync entry points: it starts the fetch phase on a
// worker goroutine, renders its progress, applies the result on the calling
// goroutine and persists the cursor.
package syncjob

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/burnki/internal/domain"
)

// CursorLayout formats the incremental sync cursor, always in UTC.
const CursorLayout = "2006-01-02T15:04:05.000000Z"

// User-facing messages.
const (
	MsgNothingNew   = "Burnki: no new burned items to sync."
	MsgMissingToken = "Burnki: no WaniKani API token configured. " +
		"Set wanikani.api_token in burnki.yaml or the WANIKANI_API_TOKEN environment variable."
	MsgTokenRejected = "Burnki: the WaniKani API token was rejected. " +
		"Check wanikani.api_token in burnki.yaml or the WANIKANI_API_TOKEN environment variable."
	MsgSetToken = "Burnki: set your WaniKani API token (wanikani.api_token or WANIKANI_API_TOKEN) to sync automatically."
)

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

// Fetcher runs the fetch phase; failures are captured in the result.
type Fetcher interface {
	BuildRecords(ctx context.Context, token, updatedAfter string, progress func(string), downloadAudio bool) domain.SyncResult
}

// Applier writes a successful result into the local collection.
type Applier interface {
	ApplyResult(ctx context.Context, result domain.SyncResult) (created, updated int, err error)
}

// CursorStore persists the cursor of the last successful sync.
type CursorStore interface {
	LastSyncCursor(ctx context.Context) (string, error)
	SaveSyncCursor(ctx context.Context, cursor string) error
}

// Hooks are host callbacks. Both run on the goroutine that called the entry
// point and may be nil.
type Hooks struct {
	Progress func(msg string)
	Notify   func(msg string)
}

// ---------------------------------------------------------------------------
// Settings and Outcome
// ---------------------------------------------------------------------------

// Settings is built once by the host per invocation.
type Settings struct {
	Token             string
	Cursor            string
	DownloadAudio     bool
	AutoSyncOnStartup bool
}

// Status classifies how a sync ended.
type Status string

const (
	StatusSynced     Status = "synced"
	StatusNothingNew Status = "nothing_new"
	StatusFailed     Status = "failed"
	StatusNoToken    Status = "no_token"
	StatusSkipped    Status = "skipped"
)

// Outcome summarises one entry point call.
type Outcome struct {
	Status       Status
	TotalFetched int
	Created      int
	Updated      int
	// Cursor is the cursor saved by this run, empty when none was saved.
	Cursor string
	Error  string
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Runner owns the sync lifecycle. It is not safe for concurrent use; callers
// serialize runs.
type Runner struct {
	log     *slog.Logger
	fetcher Fetcher
	applier Applier
	cursors CursorStore
	hooks   Hooks
	now     func() time.Time
}

// NewRunner creates a new Runner.
func NewRunner(logger *slog.Logger, fetcher Fetcher, applier Applier, cursors CursorStore, hooks Hooks) *Runner {
	return &Runner{
		log:     logger.With("service", "syncjob"),
		fetcher: fetcher,
		applier: applier,
		cursors: cursors,
		hooks:   hooks,
		now:     time.Now,
	}
}

// SyncNow fetches items burned since s.Cursor, or everything when the cursor
// is empty.
func (r *Runner) SyncNow(ctx context.Context, s Settings) Outcome {
	return r.run(ctx, s, s.Cursor)
}

// FullResync fetches every burned item regardless of the cursor.
func (r *Runner) FullResync(ctx context.Context, s Settings) Outcome {
	return r.run(ctx, s, "")
}

// AutoSync is SyncNow gated by s.AutoSyncOnStartup. A missing token only
// produces a reminder.
func (r *Runner) AutoSync(ctx context.Context, s Settings) Outcome {
	if !s.AutoSyncOnStartup {
		r.log.DebugContext(ctx, "auto sync disabled")
		return Outcome{Status: StatusSkipped}
	}
	if s.Token == "" {
		r.notify(MsgSetToken)
		return Outcome{Status: StatusNoToken, Error: domain.ErrAuth.Error()}
	}
	return r.SyncNow(ctx, s)
}

// Settings loads the persisted cursor into a copy of base.
func (r *Runner) Settings(ctx context.Context, base Settings) (Settings, error) {
	cursor, err := r.cursors.LastSyncCursor(ctx)
	if err != nil {
		return base, fmt.Errorf("load sync cursor: %w", err)
	}
	base.Cursor = cursor
	return base, nil
}

func (r *Runner) run(ctx context.Context, s Settings, updatedAfter string) Outcome {
	if s.Token == "" {
		r.log.WarnContext(ctx, "sync skipped: no api token")
		r.notify(MsgMissingToken)
		return Outcome{Status: StatusNoToken, Error: domain.ErrAuth.Error()}
	}

	startedAt := r.now().UTC().Format(CursorLayout)
	r.log.InfoContext(ctx, "sync started",
		slog.String("updated_after", updatedAfter),
		slog.Bool("download_audio", s.DownloadAudio),
	)

	result := r.fetch(ctx, s, updatedAfter)

	if result.Failed() {
		if errors.Is(result.Cause, domain.ErrAuth) {
			r.notify(MsgTokenRejected)
		} else {
			r.notify(fmt.Sprintf("Burnki sync error: %s", result.Error))
		}
		return Outcome{Status: StatusFailed, Error: result.Error}
	}

	if len(result.Notes) == 0 {
		r.log.InfoContext(ctx, "sync finished: nothing new", slog.Int("fetched", result.TotalFetched))
		r.notify(MsgNothingNew)
		return Outcome{Status: StatusNothingNew, TotalFetched: result.TotalFetched}
	}

	created, updated, err := r.applier.ApplyResult(ctx, result)
	if err != nil {
		r.log.ErrorContext(ctx, "apply failed", slog.String("error", err.Error()))
		r.notify(fmt.Sprintf("Burnki sync error: %s", err))
		return Outcome{Status: StatusFailed, TotalFetched: result.TotalFetched, Error: err.Error()}
	}

	out := Outcome{
		Status:       StatusSynced,
		TotalFetched: result.TotalFetched,
		Created:      created,
		Updated:      updated,
	}

	if err := r.cursors.SaveSyncCursor(ctx, startedAt); err != nil {
		r.log.ErrorContext(ctx, "save sync cursor", slog.String("error", err.Error()))
		out.Error = err.Error()
	} else {
		out.Cursor = startedAt
	}

	r.log.InfoContext(ctx, "sync finished",
		slog.Int("fetched", out.TotalFetched),
		slog.Int("created", created),
		slog.Int("updated", updated),
	)
	r.notify(fmt.Sprintf("Burnki: synced %d items (%d new, %d updated).", out.TotalFetched, created, updated))
	return out
}

// fetch runs the fetch phase on a worker goroutine and relays its progress
// messages to the Progress hook until the worker is done.
func (r *Runner) fetch(ctx context.Context, s Settings, updatedAfter string) domain.SyncResult {
	progress := make(chan string, 16)
	done := make(chan domain.SyncResult, 1)

	go func() {
		defer close(progress)
		done <- r.fetcher.BuildRecords(ctx, s.Token, updatedAfter, func(msg string) {
			progress <- msg
		}, s.DownloadAudio)
	}()

	for msg := range progress {
		if r.hooks.Progress != nil {
			r.hooks.Progress(msg)
		}
	}
	return <-done
}

func (r *Runner) notify(msg string) {
	if r.hooks.Notify != nil {
		r.hooks.Notify(msg)
	}
}
