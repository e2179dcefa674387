package som

import (
	"fmt"

	"github.com/arklab/pixelsom/distance"
)

// ValidateSamples checks that samples is a non-empty rectangular matrix of
// finite values and returns its channel count.
func ValidateSamples(samples [][]float64) (int, error) {
	if len(samples) == 0 {
		return 0, ErrEmptySamples
	}
	channels := len(samples[0])
	if channels == 0 {
		return 0, fmt.Errorf("%w: rows have no channels", ErrEmptySamples)
	}
	for i, row := range samples {
		if len(row) != channels {
			return 0, &DimensionMismatchError{Expected: channels, Actual: len(row), Row: i}
		}
		if !distance.AllFinite(row) {
			return 0, fmt.Errorf("%w: row %d", ErrNonFinite, i)
		}
	}
	return channels, nil
}

// ValidateSamplesFor is ValidateSamples plus a channel check against g.
func ValidateSamplesFor(samples [][]float64, g *Grid) error {
	channels, err := ValidateSamples(samples)
	if err != nil {
		return err
	}
	if channels != g.C {
		return &DimensionMismatchError{Expected: g.C, Actual: channels, Row: 0}
	}
	return nil
}
