// Package kv provides the string-keyed stores the task list persists to.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"todo/internal/config"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed value store. Set replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open opens the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (Store, error) {
	logger.Debug("opening storage", "backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case config.BackendFile:
		return NewFile(cfg.StoragePath())
	case config.BackendSQLite:
		return OpenSQL(ctx, SQLite, cfg.StoragePath())
	case config.BackendMySQL:
		return OpenSQL(ctx, MySQL, cfg.Storage.DSN)
	case config.BackendPostgres:
		return OpenSQL(ctx, Postgres, cfg.Storage.DSN)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.Storage.Addr, cfg.Storage.Password, cfg.Storage.DB)
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}
