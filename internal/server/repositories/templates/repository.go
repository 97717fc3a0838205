// Package templates persists the per-user face reference. Three backends
// share one contract: Postgres (default), an S3 bucket and process memory.
package templates

import (
	"context"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

// Every write issues a version the user has never had before, even after a
// Delete, so a version read earlier can only ever match the same template.
type Repository interface {
	// Get returns common.ErrorNotFound when the user has no template.
	Get(ctx context.Context, userID string) (*models.Template, error)

	// Put creates or fully replaces the template of userID.
	Put(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error)

	// UpdateReference swaps the descriptor only if the stored version equals
	// expectedVersion. It returns common.ErrVersionConflict otherwise and
	// common.ErrorNotFound when there is nothing to update.
	UpdateReference(ctx context.Context, userID string, expectedVersion int64, descriptor biometrics.Descriptor) (*models.Template, error)

	// Delete removes the template. Missing templates are not an error.
	Delete(ctx context.Context, userID string) error
}
