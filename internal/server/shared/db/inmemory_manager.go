package db

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	// tx serialises WithinTx callers; the repository itself has no rollback.
	tx sync.Mutex
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	m.tx.Lock()
	defer m.tx.Unlock()
	return fn(ctx, m.users)
}

func (m *InMemoryRepositoryManager) Ping(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
