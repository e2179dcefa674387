package pixelsom

import (
	"context"

	"github.com/arklab/pixelsom/internal/som"
)

// Quality summarizes how well a grid fits a sample matrix.
type Quality struct {
	// QuantizationError is the mean Euclidean distance from each row to its
	// nearest prototype.
	QuantizationError float64
	// QuantizationStdDev is the sample standard deviation of those distances.
	QuantizationStdDev float64
	// TopographicError is the fraction of rows whose nearest and second
	// nearest prototypes are not grid neighbors (including diagonals).
	TopographicError float64
}

// Evaluate measures grid against samples. It honors WithWorkers and does
// not modify the grid.
func Evaluate(ctx context.Context, grid *Grid, samples [][]float64, opts ...Option) (*Quality, error) {
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, ErrNilGrid
	}
	q, err := som.Evaluate(ctx, grid.g, samples, o.workers)
	if err != nil {
		return nil, translateError(err)
	}
	return &Quality{
		QuantizationError:  q.QuantizationError,
		QuantizationStdDev: q.QuantizationStdDev,
		TopographicError:   q.TopographicError,
	}, nil
}
