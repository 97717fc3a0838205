package biometrics

import "fmt"

// Default decision constants.
const (
	DefaultMatchThreshold = 0.45
	DefaultUpdateFloor    = 0.01
	DefaultUpdateCeiling  = 0.35
	DefaultUpdateWeight   = 0.8
)

// Policy holds the match threshold and the adaptive update band.
//
// A distance strictly below MatchThreshold is a match. A match whose
// distance lies strictly inside (UpdateFloor, UpdateCeiling) is blended into
// the stored reference with UpdateWeight kept on the old value.
type Policy struct {
	MatchThreshold float64
	UpdateFloor    float64
	UpdateCeiling  float64
	UpdateWeight   float64
}

// DefaultPolicy returns the calibrated production policy.
func DefaultPolicy() Policy {
	return Policy{
		MatchThreshold: DefaultMatchThreshold,
		UpdateFloor:    DefaultUpdateFloor,
		UpdateCeiling:  DefaultUpdateCeiling,
		UpdateWeight:   DefaultUpdateWeight,
	}
}

// Matches reports whether distance is a positive verification.
func (p Policy) Matches(distance float64) bool {
	return distance < p.MatchThreshold
}

// ShouldUpdate reports whether a verification at distance should drift the
// stored reference.
func (p Policy) ShouldUpdate(distance float64) bool {
	return p.Matches(distance) && distance > p.UpdateFloor && distance < p.UpdateCeiling
}

// Validate checks that the band sits inside the match region and the weight
// is a proper fraction.
func (p Policy) Validate() error {
	switch {
	case !(p.MatchThreshold > 0):
		return fmt.Errorf("match threshold must be positive, got %v", p.MatchThreshold)
	case p.UpdateFloor < 0 || p.UpdateFloor >= p.UpdateCeiling:
		return fmt.Errorf("update band (%v, %v) is empty", p.UpdateFloor, p.UpdateCeiling)
	case p.UpdateCeiling > p.MatchThreshold:
		return fmt.Errorf("update ceiling %v exceeds match threshold %v", p.UpdateCeiling, p.MatchThreshold)
	case !(p.UpdateWeight > 0 && p.UpdateWeight < 1):
		return fmt.Errorf("update weight must be in (0, 1), got %v", p.UpdateWeight)
	}
	return nil
}
