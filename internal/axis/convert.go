// Package axis implements the numeric side of time-unit conversion:
// re-expressing a time axis under a different convention and keeping the
// ascending-order invariant that the rest of the toolkit relies on.
//
// Conversion is purely linear. Every value is first projected onto the
// absolute astronomical year line, then re-projected into the target
// convention. A conversion between conventions of opposite direction
// flips the order of the sequence; Convert detects that and reverses the
// result so callers always receive an axis that ascends in absolute time,
// together with a flag telling them the reversal happened.
package axis

import "github.com/quartzlab/tephra/internal/timeunit"

// Convert re-expresses values, currently in the from convention, under
// the to convention. It returns a new slice (the input is never
// modified) and reports whether the result was reversed to restore the
// ascending invariant.
//
// Same-descriptor conversions return a copy of the input with
// reordered=false. Empty and single-element axes never reorder.
// Non-finite values flow through the arithmetic untouched; no rounding
// is applied beyond native float64 precision.
func Convert(values []float64, from, to timeunit.Descriptor) ([]float64, bool) {
	out := make([]float64, len(values))
	if from == to {
		copy(out, values)
		return out, false
	}

	fromScale := from.Scale()
	toScale := to.Scale()
	fromSign := from.Direction.Sign()
	toSign := to.Direction.Sign()

	for i, v := range values {
		abs := from.DatumYears + fromSign*v*fromScale
		out[i] = toSign * (abs - to.DatumYears) / toScale
	}

	if len(out) > 1 && predominantlyDescending(out) {
		Reverse(out)
		return out, true
	}
	return out, false
}

// predominantlyDescending reports whether the first-order differences of
// s are mostly negative, i.e. the transform inverted the ascending
// property. NaN-adjacent differences count for neither side.
func predominantlyDescending(s []float64) bool {
	var up, down int
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] < s[i-1]:
			down++
		case s[i] > s[i-1]:
			up++
		}
	}
	return down > up
}

// Reverse reverses s in place.
func Reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Reversed returns a reversed copy of s.
func Reversed(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
