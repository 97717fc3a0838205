package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
)

// AccountDirectory resolves user IDs against the account system.
type AccountDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// EnrollmentService commits a user's reference descriptor. There is one
// template per user and enrolling again replaces it outright.
type EnrollmentService struct {
	accounts  AccountDirectory
	templates templates.Repository
	// dimension, when positive, is the only accepted descriptor length.
	dimension int
	logger    logging.Logger
	metrics   *metrics.Recorder
}

func NewEnrollmentService(accounts AccountDirectory, store templates.Repository, dimension int, l logging.Logger, m *metrics.Recorder) *EnrollmentService {
	return &EnrollmentService{
		accounts:  accounts,
		templates: store,
		dimension: dimension,
		logger:    l.With("module", "enrollment"),
		metrics:   m,
	}
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error) {
	t, err := s.enroll(ctx, userID, descriptor)
	if err != nil {
		s.metrics.Enrollment(common.Kind(err))
		s.logger.Warn(ctx, "enrollment rejected", "user_id", userID, "error", err)
		return nil, err
	}
	s.metrics.Enrollment("ok")
	s.logger.Info(ctx, "enrolled", "user_id", userID, "version", t.Version, "dimension", len(t.Descriptor))
	return t, nil
}

func (s *EnrollmentService) enroll(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error) {
	if userID == "" || len(descriptor) == 0 {
		return nil, fmt.Errorf("%w: user id and face descriptor are required", common.ErrInvalidRequest)
	}
	if s.dimension > 0 && len(descriptor) != s.dimension {
		return nil, fmt.Errorf("%w: descriptor has %d coordinates, want %d", common.ErrInvalidRequest, len(descriptor), s.dimension)
	}
	if biometrics.Overlap(descriptor, descriptor) == 0 {
		return nil, fmt.Errorf("%w: descriptor has no finite coordinates", common.ErrInvalidRequest)
	}

	if err := s.requireAccount(ctx, userID); err != nil {
		return nil, err
	}

	t, err := s.templates.Put(ctx, userID, descriptor)
	if err != nil {
		// the account can vanish between the lookup and the write
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return t, nil
}

// HasEnrolled reports whether the user has a usable reference.
func (s *EnrollmentService) HasEnrolled(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", common.ErrInvalidRequest)
	}
	if err := s.requireAccount(ctx, userID); err != nil {
		return false, err
	}

	t, err := s.templates.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return !t.Empty(), nil
}

// Reset drops the user's template. Resetting a user without one succeeds.
func (s *EnrollmentService) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrInvalidRequest)
	}
	if err := s.templates.Delete(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	s.logger.Info(ctx, "template reset", "user_id", userID)
	return nil
}

func (s *EnrollmentService) requireAccount(ctx context.Context, userID string) error {
	ok, err := s.accounts.Exists(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrStorageFailure) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	if !ok {
		return common.ErrUserNotFound
	}
	return nil
}
