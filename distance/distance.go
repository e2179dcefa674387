package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Euclidean calculates the L2 distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// Norm returns the L2 norm of v.
func Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false, leaving v untouched, if v has zero or non-finite L2 norm.
func NormalizeL2InPlace(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	norm := Norm(v)
	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return false
	}
	floats.Scale(1/norm, v)
	return true
}

// AllFinite reports whether every element of v is neither NaN nor Inf.
func AllFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
