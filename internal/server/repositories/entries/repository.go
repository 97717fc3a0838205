// Package entries stores sealed password vault records. Every call is
// scoped to the owning user; an entry of another user is reported as
// common.ErrEntryNotFound.
package entries

import (
	"context"

	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

type Repository interface {
	// Create inserts entry and fills its ID and timestamps.
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	// ListByUser returns the user's entries, oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Entry, error)
	// Get loads one entry, locking its row when db is a transaction.
	Get(ctx context.Context, userID, id string) (*models.Entry, error)
	// Update replaces the sealed payload and nonce of an existing entry.
	Update(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}
