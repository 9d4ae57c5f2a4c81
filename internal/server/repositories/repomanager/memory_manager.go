package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/sessions"
)

// InMemoryRepositoryManager hands out the same process-local repositories
// regardless of the DBTX passed in.
type InMemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	sessions *sessions.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		sessions: sessions.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }

func (m *InMemoryRepositoryManager) Sessions(dbx.DBTX) sessions.Repository { return m.sessions }
