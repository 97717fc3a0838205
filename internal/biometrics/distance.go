package biometrics

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is reported instead of a literal zero distance, which would
// otherwise be ambiguous between identical captures and all-skipped vectors.
const Epsilon = 1e-4

// ErrDimensionMismatch is returned when two descriptors differ in length.
var ErrDimensionMismatch = errors.New("descriptor dimension mismatch")

// Distance returns the Euclidean distance between a and b.
//
// Coordinate pairs where either side is NaN or infinite contribute nothing
// to the sum. A zero result is replaced by Epsilon. Descriptors of different
// length are rejected with ErrDimensionMismatch rather than truncated.
func Distance(a, b Descriptor) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var sum float64
	for i := range a {
		if !finite(a[i]) || !finite(b[i]) {
			continue
		}
		diff := a[i] - b[i]
		sum += diff * diff
	}

	d := math.Sqrt(sum)
	if d == 0 {
		return Epsilon, nil
	}
	return d, nil
}

// Round4 rounds x to four decimal places, the precision distances are
// reported with.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Overlap counts the coordinate pairs Distance would actually compare.
// Descriptors of different length overlap nowhere.
func Overlap(a, b Descriptor) int {
	if len(a) != len(b) {
		return 0
	}
	n := 0
	for i := range a {
		if finite(a[i]) && finite(b[i]) {
			n++
		}
	}
	return n
}
