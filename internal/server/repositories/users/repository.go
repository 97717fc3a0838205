// Package users declares the account repository: the directory the
// biometric services consult to resolve user IDs.
package users

import (
	"context"

	"github.com/dmitrijs2005/lockwise/internal/server/models"
)

type Repository interface {
	// Create inserts a user and fills its ID. A duplicate email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin looks a user up by email.
	GetUserByLogin(ctx context.Context, email string) (*models.User, error)
	// GetByID looks a user up by ID; malformed IDs are reported as not found.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
