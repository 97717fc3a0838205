package biometrics

import "math"

// Blend moves a stored reference toward a new observation:
// out[i] = old[i]*weight + observed[i]*(1-weight).
//
// When only one side of a coordinate is finite that side is kept, and when
// neither is the coordinate becomes 0. The result has the length of old;
// missing observed coordinates count as non-finite. Inputs are not modified.
func Blend(old, observed Descriptor, weight float64) Descriptor {
	out := make(Descriptor, len(old))
	for i, o := range old {
		n := math.NaN()
		if i < len(observed) {
			n = observed[i]
		}

		switch {
		case finite(o) && finite(n):
			out[i] = o*weight + n*(1-weight)
		case finite(o):
			out[i] = o
		case finite(n):
			out[i] = n
		default:
			out[i] = 0
		}
	}
	return out
}
