package som

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Quality summarizes how well a grid fits a sample matrix.
type Quality struct {
	// QuantizationError is the mean Euclidean distance from each sample to
	// its winning prototype.
	QuantizationError float64
	// QuantizationStdDev is the sample standard deviation of those distances
	// (0 for a single sample).
	QuantizationStdDev float64
	// TopographicError is the fraction of samples whose best and second-best
	// prototypes are not grid neighbors (Chebyshev distance > 1).
	TopographicError float64
}

// Evaluate computes Quality for samples against g without modifying g.
func Evaluate(ctx context.Context, g *Grid, samples [][]float64, workers int) (Quality, error) {
	if err := ValidateSamplesFor(samples, g); err != nil {
		return Quality{}, err
	}

	dists := make([]float64, len(samples))
	breaks := make([]float64, len(samples))

	err := forEachRow(ctx, len(samples), workers, func(i int) error {
		first, second, d, ok, err := WinnerPair(samples[i], g)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		dists[i] = d
		if ok && !adjacent(first, second) {
			breaks[i] = 1
		}
		return nil
	})
	if err != nil {
		return Quality{}, err
	}

	q := Quality{
		TopographicError: stat.Mean(breaks, nil),
	}
	if len(dists) == 1 {
		q.QuantizationError = dists[0]
	} else {
		q.QuantizationError, q.QuantizationStdDev = stat.MeanStdDev(dists, nil)
	}
	return q, nil
}

func adjacent(a, b Coord) bool {
	return abs(a.X-b.X) <= 1 && abs(a.Y-b.Y) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
