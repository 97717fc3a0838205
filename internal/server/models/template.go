package models

import (
	"time"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
)

// Template is the single biometric reference kept for a user.
type Template struct {
	UserID string
	// Descriptor is the current reference vector. Enrollment replaces it,
	// successful verifications may blend new observations into it.
	Descriptor biometrics.Descriptor
	// Version increments on every write and guards the adaptive update
	// against lost updates.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Empty reports whether the template carries no usable reference.
func (t *Template) Empty() bool {
	return t == nil || len(t.Descriptor) == 0
}
