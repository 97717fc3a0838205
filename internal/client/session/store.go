// Package session keeps the CLI login between runs in a small SQLite file,
// so a restart resumes with the stored refresh token instead of asking for
// the password again.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockwise/internal/client/migrations"
	"github.com/dmitrijs2005/lockwise/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyUserID       = "user_id"
	keyEmail        = "email"
	keyRefreshToken = "refresh_token"
)

// Session is what survives a restart. The access token is never stored.
type Session struct {
	UserID       string
	Email        string
	RefreshToken string
}

type Store interface {
	// Load returns nil when nothing is stored.
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
	Close() error
}

type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the session database at dsn.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session`)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	if values[keyRefreshToken] == "" {
		return nil, nil
	}
	return &Session{
		UserID:       values[keyUserID],
		Email:        values[keyEmail],
		RefreshToken: values[keyRefreshToken],
	}, nil
}

// Save replaces the stored session atomically.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	if sess.RefreshToken == "" {
		return errors.New("refusing to store a session without refresh token")
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session`); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		for k, v := range map[string]string{
			keyUserID:       sess.UserID,
			keyEmail:        sess.Email,
			keyRefreshToken: sess.RefreshToken,
		} {
			if _, err := tx.ExecContext(ctx, `INSERT INTO session (key, value) VALUES (?, ?)`, k, v); err != nil {
				return fmt.Errorf("failed to set session[%s]: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
