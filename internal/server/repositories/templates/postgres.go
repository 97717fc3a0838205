package templates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/dbx"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresRepository stores descriptors in a float8[] column, which keeps
// every coordinate (NaN included) at full precision. Versions are drawn from
// the face_template_versions sequence, so a deleted and re-created row
// never gets an old version back.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Template, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `
		SELECT descriptor, version, created_at, updated_at
		FROM face_templates
		WHERE user_id = $1
	`
	t := &models.Template{UserID: userID}
	var d pq.Float64Array
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&d, &t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.Descriptor = biometrics.Descriptor(d)
	return t, nil
}

func (r *PostgresRepository) Put(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error) {
	query := `
		INSERT INTO face_templates (user_id, descriptor, version)
		VALUES ($1, $2, nextval('face_template_versions'))
		ON CONFLICT (user_id) DO UPDATE
		SET descriptor = EXCLUDED.descriptor,
		    version = EXCLUDED.version,
		    created_at = now(),
		    updated_at = now()
		RETURNING version, created_at, updated_at
	`
	t := &models.Template{UserID: userID, Descriptor: descriptor.Clone()}
	err := r.db.QueryRowContext(ctx, query, userID, pq.Float64Array(descriptor)).
		Scan(&t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) UpdateReference(ctx context.Context, userID string, expectedVersion int64, descriptor biometrics.Descriptor) (*models.Template, error) {
	query := `
		UPDATE face_templates
		SET descriptor = $2, version = nextval('face_template_versions'), updated_at = now()
		WHERE user_id = $1 AND version = $3
		RETURNING version, created_at, updated_at
	`
	t := &models.Template{UserID: userID, Descriptor: descriptor.Clone()}
	err := r.db.QueryRowContext(ctx, query, userID, pq.Float64Array(descriptor), expectedVersion).
		Scan(&t.Version, &t.CreatedAt, &t.UpdatedAt)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Nothing matched: either the row is gone or someone wrote first.
	var current int64
	err = r.db.QueryRowContext(ctx, `SELECT version FROM face_templates WHERE user_id = $1`, userID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return nil, fmt.Errorf("%w: expected %d, stored %d", common.ErrVersionConflict, expectedVersion, current)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return nil
	}
	query := `
		DELETE FROM face_templates
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
