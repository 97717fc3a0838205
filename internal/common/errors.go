// Package common defines shared constants and sentinel errors used across
// client and server layers of LockWise. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")
	ErrAlreadyExists   = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Biometric flow errors.
	ErrInvalidRequest = errors.New("invalid request")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoTemplate     = errors.New("user has not enrolled")
	ErrStorageFailure = errors.New("storage failure")

	// Password vault errors.
	ErrEntryNotFound = errors.New("password not found")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Stable error kinds reported to API callers.
const (
	KindInvalidRequest    = "InvalidRequest"
	KindUserNotFound      = "UserNotFound"
	KindNoTemplate        = "NoTemplate"
	KindEntryNotFound     = "EntryNotFound"
	KindDimensionMismatch = "DimensionMismatch"
	KindStorageFailure    = "StorageFailure"
	KindAlreadyExists     = "AlreadyExists"
	KindUnauthorized      = "Unauthorized"
	KindInternal          = "Internal"
)

// Kind classifies err into one of the stable kinds above. Unknown errors are
// reported as KindInternal.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, biometrics.ErrInvalidDescriptor):
		return KindInvalidRequest
	case errors.Is(err, ErrUserNotFound):
		return KindUserNotFound
	case errors.Is(err, ErrNoTemplate):
		return KindNoTemplate
	case errors.Is(err, ErrEntryNotFound):
		return KindEntryNotFound
	case errors.Is(err, biometrics.ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, ErrStorageFailure):
		return KindStorageFailure
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrorUnauthorized), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired), errors.Is(err, ErrRefreshTokenExpired):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
