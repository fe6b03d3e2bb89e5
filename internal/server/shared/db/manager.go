// Package db vends the sandbox's repositories: Postgres-backed when a DSN is
// configured, in-memory otherwise.
package db

import (
	"context"

	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// New picks the backend for dsn. An empty dsn keeps everything in memory.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	m, err := NewPostgresRepositoryManager(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}
