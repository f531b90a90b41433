package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/burnki/internal/adapter/postgres"
	"github.com/heartmarshall/burnki/internal/adapter/postgres/collection"
	"github.com/heartmarshall/burnki/internal/adapter/postgres/syncstate"
	"github.com/heartmarshall/burnki/internal/adapter/sqlite"
	"github.com/heartmarshall/burnki/internal/app/syncjob"
	"github.com/heartmarshall/burnki/internal/config"
	"github.com/heartmarshall/burnki/internal/domain"
	"github.com/heartmarshall/burnki/internal/service/reconcile"
)

// Store is the local collection as seen by the application.
type Store interface {
	reconcile.Collection
	syncjob.CursorStore
	ListNotes(ctx context.Context, noteTypeID uuid.UUID) ([]domain.Note, error)
	ReadMedia(ctx context.Context, filename string) ([]byte, error)
	Close() error
}

// OpenStore opens and migrates the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		s, err := sqlite.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("open store: %w", domain.NewValidationError("store.driver", "unknown driver "+cfg.Driver))
	}
}

type postgresStore struct {
	*collection.Repo
	*postgres.TxManager
	cursors *syncstate.Repo
	pool    *pgxpool.Pool
}

func openPostgres(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*postgresStore, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "store opened", slog.String("driver", config.DriverPostgres))
	return &postgresStore{
		Repo:      collection.New(pool),
		TxManager: postgres.NewTxManager(pool),
		cursors:   syncstate.New(pool),
		pool:      pool,
	}, nil
}

func (s *postgresStore) LastSyncCursor(ctx context.Context) (string, error) {
	return s.cursors.LastSyncCursor(ctx)
}

func (s *postgresStore) SaveSyncCursor(ctx context.Context, cursor string) error {
	return s.cursors.SaveSyncCursor(ctx, cursor)
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
