// Package refreshtokens stores the long-lived half of a LockWise token pair.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes a single token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired drops every expired token of userID and reports how many
	// rows went away.
	DeleteExpired(ctx context.Context, userID string) (int64, error)
}
