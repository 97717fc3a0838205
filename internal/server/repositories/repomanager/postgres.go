// Package repomanager wires repository constructors together with the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/lockwise/internal/dbx"
	"github.com/dmitrijs2005/lockwise/internal/server/migrations"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/entries"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	// templateStore, when set, replaces the face_templates table as the
	// template backend (S3 or memory).
	templateStore templates.Repository
}

// Option customizes a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithTemplateStore routes Templates() to store regardless of the DBTX
// passed in.
func WithTemplateStore(store templates.Repository) Option {
	return func(m *PostgresRepositoryManager) {
		m.templateStore = store
	}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Templates(db dbx.DBTX) templates.Repository {
	if m.templateStore != nil {
		return m.templateStore
	}
	return templates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager(opts ...Option) RepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, o := range opts {
		o(m)
	}
	return m
}
