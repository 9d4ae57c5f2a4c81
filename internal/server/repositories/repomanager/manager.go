package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/sessions"
)

// RepositoryManager vends repositories bound to a DBTX and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
