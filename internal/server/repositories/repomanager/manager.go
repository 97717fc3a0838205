package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lockwise/internal/dbx"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/entries"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// pick between the pool and an open transaction per call.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Templates(db dbx.DBTX) templates.Repository
	Entries(db dbx.DBTX) entries.Repository
}
