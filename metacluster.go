package pixelsom

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/arklab/pixelsom/distance"
	"github.com/arklab/pixelsom/internal/kmeans"
)

// Metaclusters groups the neurons of a grid into k coarser clusters.
type Metaclusters struct {
	x, y      int
	c         int
	of        []int
	centroids []float64
}

// Metacluster runs k-means over the prototypes of grid and returns the
// grouping. Centroids start from k distinct prototypes chosen with WithSeed;
// WithMaxIterations bounds the loop. k must be in [1, X*Y].
func Metacluster(ctx context.Context, grid *Grid, k int, opts ...Option) (*Metaclusters, error) {
	o := applyOptions(opts)
	if grid == nil {
		return nil, ErrNilGrid
	}
	x, y, c := grid.Dims()
	if k < 1 || k > x*y {
		return nil, fmt.Errorf("%w: k must be in [1, %d], got %d", ErrInvalidConfig, x*y, k)
	}

	centroids, of, err := kmeans.Train(ctx, grid.g.Weights, c, k, o.maxIterations, rand.New(rand.NewSource(o.seed)))
	if err != nil {
		return nil, translateError(err)
	}
	return &Metaclusters{x: x, y: y, c: c, of: of, centroids: centroids}, nil
}

// K returns the number of metaclusters.
func (m *Metaclusters) K() int {
	return len(m.centroids) / m.c
}

// Of returns the metacluster of the neuron at c, or -1 outside the grid.
func (m *Metaclusters) Of(c Coord) int {
	if c.X < 0 || c.X >= m.x || c.Y < 0 || c.Y >= m.y {
		return -1
	}
	return m.of[c.X*m.y+c.Y]
}

// Centroid returns a copy of metacluster i's centroid.
// It panics if i is not in [0, K).
func (m *Metaclusters) Centroid(i int) []float64 {
	return slices.Clone(m.centroids[i*m.c : (i+1)*m.c])
}

// Nearest returns the metacluster whose centroid is closest to v, with
// ties going to the lower index. It classifies pixels that were never
// part of training without a detour through the grid.
func (m *Metaclusters) Nearest(v []float64) (int, error) {
	if len(v) != m.c {
		return -1, &ErrDimensionMismatch{Expected: m.c, Actual: len(v), Row: -1}
	}
	if !distance.AllFinite(v) {
		return -1, ErrNonFinite
	}
	i, err := kmeans.AssignPartition(v, m.centroids, m.c)
	if err != nil {
		return -1, translateError(err)
	}
	return i, nil
}

// Relabel maps every row label of a onto its neuron's metacluster.
// Rows whose neuron lies outside this grid get -1.
func (m *Metaclusters) Relabel(a *Assignment) []int {
	byLabel := make([]int, a.K())
	for l := range byLabel {
		byLabel[l] = m.Of(a.Coord(l))
	}
	out := make([]int, len(a.labels))
	for i, l := range a.labels {
		out[i] = byLabel[l]
	}
	return out
}
