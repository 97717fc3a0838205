package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/common"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/repositories/templates"
	"github.com/sethvargo/go-retry"
)

const (
	defaultUpdateAttempts = 3
	defaultUpdateBackoff  = 5 * time.Millisecond
)

// errReEnrolled stops the update loop when the template was replaced by a
// fresh enrollment after the sample was matched.
var errReEnrolled = errors.New("template re-enrolled during verification")

// VerificationResult is the outcome of one Verify call. Distance is already
// rounded to four decimals.
type VerificationResult struct {
	Matched  bool
	Distance float64
	Updated  bool
}

// VerificationEngine compares a sample with the stored reference and, on a
// close match, drifts the reference toward the sample.
//
// The drift is written with a version check. When another writer wins, the
// blend is recomputed from the fresh reference and retried a few times. The
// match decision itself is never revisited, and a failed drift never fails
// the verification.
type VerificationEngine struct {
	templates      templates.Repository
	policy         biometrics.Policy
	logger         logging.Logger
	metrics        *metrics.Recorder
	updateAttempts uint64
	updateBackoff  time.Duration
}

func NewVerificationEngine(store templates.Repository, policy biometrics.Policy, l logging.Logger, m *metrics.Recorder) *VerificationEngine {
	return &VerificationEngine{
		templates:      store,
		policy:         policy,
		logger:         l.With("module", "verification"),
		metrics:        m,
		updateAttempts: defaultUpdateAttempts,
		updateBackoff:  defaultUpdateBackoff,
	}
}

func (e *VerificationEngine) Verify(ctx context.Context, userID string, sample biometrics.Descriptor) (*VerificationResult, error) {
	res, err := e.verify(ctx, userID, sample)
	if err != nil {
		e.metrics.Verification(metrics.OutcomeError, 0)
		e.logger.Warn(ctx, "verification error", "user_id", userID, "kind", common.Kind(err), "error", err)
		return nil, err
	}

	outcome := metrics.OutcomeNoMatch
	if res.Matched {
		outcome = metrics.OutcomeMatch
	}
	e.metrics.Verification(outcome, res.Distance)
	e.logger.Info(ctx, "verification", "user_id", userID, "matched", res.Matched, "distance", res.Distance, "updated", res.Updated)
	return res, nil
}

func (e *VerificationEngine) verify(ctx context.Context, userID string, sample biometrics.Descriptor) (*VerificationResult, error) {
	if userID == "" || len(sample) == 0 {
		return nil, fmt.Errorf("%w: user id and face descriptor are required", common.ErrInvalidRequest)
	}

	tmpl, err := e.templates.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoTemplate
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	if tmpl.Empty() {
		return nil, common.ErrNoTemplate
	}

	distance, err := biometrics.Distance(tmpl.Descriptor, sample)
	if err != nil {
		return nil, err
	}
	// With nothing comparable the metric reports Epsilon, which must not
	// pass for an identical face.
	if biometrics.Overlap(tmpl.Descriptor, sample) == 0 {
		return nil, fmt.Errorf("%w: descriptor shares no finite coordinates with the reference", common.ErrInvalidRequest)
	}

	res := &VerificationResult{Distance: biometrics.Round4(distance)}
	if !e.policy.Matches(distance) {
		return res, nil
	}
	res.Matched = true

	if e.policy.ShouldUpdate(distance) {
		res.Updated = e.updateReference(ctx, tmpl, sample)
	}
	return res, nil
}

// updateReference blends sample into the stored reference and reports
// whether the write landed. Failures are logged and counted only.
func (e *VerificationEngine) updateReference(ctx context.Context, base *models.Template, sample biometrics.Descriptor) bool {
	attempts := e.updateAttempts
	if attempts == 0 {
		attempts = 1
	}
	b := retry.WithMaxRetries(attempts-1, retry.NewConstant(e.updateBackoff))

	current := base
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			fresh, err := e.templates.Get(ctx, base.UserID)
			if err != nil {
				return err
			}
			if fresh.Empty() || !fresh.CreatedAt.Equal(base.CreatedAt) || len(fresh.Descriptor) != len(sample) {
				return errReEnrolled
			}
			current = fresh
		}

		blended := biometrics.Blend(current.Descriptor, sample, e.policy.UpdateWeight)
		_, err := e.templates.UpdateReference(ctx, base.UserID, current.Version, blended)
		if errors.Is(err, common.ErrVersionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})

	switch {
	case err == nil:
		e.metrics.TemplateUpdate(metrics.UpdateApplied)
		if attempt > 1 {
			e.logger.Debug(ctx, "template updated after retry", "user_id", base.UserID, "attempts", attempt)
		}
		return true
	case errors.Is(err, common.ErrVersionConflict), errors.Is(err, errReEnrolled), errors.Is(err, common.ErrorNotFound):
		e.metrics.TemplateUpdate(metrics.UpdateConflict)
		e.logger.Warn(ctx, "template update abandoned", "user_id", base.UserID, "attempts", attempt, "error", err)
	default:
		e.metrics.TemplateUpdate(metrics.UpdateFailed)
		e.logger.Warn(ctx, "template update failed", "user_id", base.UserID, "attempts", attempt, "error", err)
	}
	return false
}
