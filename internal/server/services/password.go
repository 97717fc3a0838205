package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/cryptox"
	"github.com/dmitrijs2005/lockwise/internal/dbx"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/config"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/repomanager"
)

// vaultSalt keeps vault keys apart from JWT signing when both come from
// the same secret.
var vaultSalt = []byte("lockwise/password-vault/v1")

// CredentialPatch lists the fields an edit changes. Site, Email and Password
// are changed only when set to a non-empty value; URL and Category are
// changed whenever set, so an empty string clears them.
type CredentialPatch struct {
	Site     *string
	Email    *string
	Password *string
	URL      *string
	Category *string
}

func (p CredentialPatch) apply(c *models.Credential) {
	setIfNotEmpty := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	setIfNotEmpty(&c.Site, p.Site)
	setIfNotEmpty(&c.Email, p.Email)
	setIfNotEmpty(&c.Password, p.Password)
	if p.URL != nil {
		c.URL = *p.URL
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
}

// PasswordService keeps each user's saved site credentials. Entries are
// sealed with AES-GCM before they reach the repository and bound to their
// owner, so a row moved to another account no longer opens.
type PasswordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	key         []byte
	logger      logging.Logger
}

func NewPasswordService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) (*PasswordService, error) {
	key, err := cryptox.DeriveKey([]byte(cfg.VaultSecret()), vaultSalt)
	if err != nil {
		return nil, fmt.Errorf("vault key: %w", err)
	}
	return &PasswordService{
		db:          db,
		repomanager: m,
		key:         key,
		logger:      l.With("module", "password_service"),
	}, nil
}

// Create stores a new credential. Site, email and password are required.
func (s *PasswordService) Create(ctx context.Context, userID string, c models.Credential) (*models.Credential, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrInvalidRequest)
	}
	if c.Site == "" || c.Email == "" || c.Password == "" {
		return nil, fmt.Errorf("%w: site, email and password are required", common.ErrInvalidRequest)
	}

	entry, err := s.seal(userID, &c)
	if err != nil {
		return nil, err
	}

	entry, err = s.repomanager.Entries(s.db).Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("%w: error creating entry: %v", common.ErrStorageFailure, err)
	}

	fill(&c, entry)
	s.logger.Info(ctx, "password saved", "user_id", userID, "entry_id", c.ID)
	return &c, nil
}

// List returns the user's credentials, oldest first. Entries that no
// longer open under the current key are skipped and logged.
func (s *PasswordService) List(ctx context.Context, userID string) ([]models.Credential, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrInvalidRequest)
	}

	entries, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	result := make([]models.Credential, 0, len(entries))
	for i := range entries {
		c, err := s.open(&entries[i])
		if err != nil {
			s.logger.Warn(ctx, "skipping unreadable entry", "user_id", userID, "entry_id", entries[i].ID, "error", err)
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

// Update applies patch to one of the user's credentials.
func (s *PasswordService) Update(ctx context.Context, userID, id string, patch CredentialPatch) (*models.Credential, error) {
	if userID == "" || id == "" {
		return nil, fmt.Errorf("%w: user id and entry id are required", common.ErrInvalidRequest)
	}

	var updated *models.Credential
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)

		entry, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		c, err := s.open(entry)
		if err != nil {
			return fmt.Errorf("%w: cannot open entry: %v", common.ErrorInternal, err)
		}

		patch.apply(c)

		sealed, err := s.seal(userID, c)
		if err != nil {
			return err
		}
		sealed.ID = entry.ID
		if sealed, err = repo.Update(ctx, sealed); err != nil {
			return err
		}

		fill(c, sealed)
		updated = c
		return nil
	})
	if err != nil {
		return nil, s.storageError(err)
	}

	s.logger.Info(ctx, "password updated", "user_id", userID, "entry_id", id)
	return updated, nil
}

// Delete removes one of the user's credentials.
func (s *PasswordService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" || id == "" {
		return fmt.Errorf("%w: user id and entry id are required", common.ErrInvalidRequest)
	}
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, id); err != nil {
		return s.storageError(err)
	}
	s.logger.Info(ctx, "password deleted", "user_id", userID, "entry_id", id)
	return nil
}

func (s *PasswordService) seal(userID string, c *models.Credential) (*models.Entry, error) {
	payload, nonce, err := cryptox.EncryptEntry(c, s.key, []byte(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot seal entry: %v", common.ErrorInternal, err)
	}
	return &models.Entry{UserID: userID, Payload: payload, Nonce: nonce}, nil
}

func (s *PasswordService) open(e *models.Entry) (*models.Credential, error) {
	c := &models.Credential{}
	if err := cryptox.DecryptEntry(e.Payload, e.Nonce, s.key, []byte(e.UserID), c); err != nil {
		return nil, err
	}
	fill(c, e)
	return c, nil
}

// storageError passes through errors the caller can act on and classifies
// the rest as storage failures.
func (s *PasswordService) storageError(err error) error {
	switch {
	case errors.Is(err, common.ErrEntryNotFound),
		errors.Is(err, common.ErrorInternal),
		errors.Is(err, common.ErrStorageFailure):
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
}

func fill(c *models.Credential, e *models.Entry) {
	c.ID = e.ID
	c.UserID = e.UserID
	c.CreatedAt = e.CreatedAt
	c.UpdatedAt = e.UpdatedAt
}
