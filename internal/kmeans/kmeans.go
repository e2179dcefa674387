package kmeans

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/arklab/pixelsom/distance"
)

var (
	// ErrInvalidArgument is returned for a bad dim, k or iteration count.
	ErrInvalidArgument = errors.New("kmeans: invalid argument")
	// ErrTooFewVectors is returned when there are fewer vectors than clusters.
	ErrTooFewVectors = errors.New("kmeans: fewer vectors than clusters")
)

// Train clusters the vectors (n * dim, row-major) into k centroids using
// Lloyd's algorithm. Initial centroids are k distinct data points drawn from
// rng. It returns the flattened centroids (k * dim) and the cluster of every
// vector. Ties go to the lowest cluster index.
func Train(ctx context.Context, vectors []float64, dim, k, maxIter int, rng *rand.Rand) ([]float64, []int, error) {
	if dim < 1 || k < 1 || maxIter < 1 || len(vectors)%dim != 0 {
		return nil, nil, fmt.Errorf("%w: dim=%d k=%d maxIter=%d len=%d", ErrInvalidArgument, dim, k, maxIter, len(vectors))
	}
	if rng == nil {
		return nil, nil, fmt.Errorf("%w: nil random generator", ErrInvalidArgument)
	}
	n := len(vectors) / dim
	if n < k {
		return nil, nil, fmt.Errorf("%w: %d < %d", ErrTooFewVectors, n, k)
	}

	centroids := make([]float64, k*dim)
	perm := rng.Perm(n)
	for i := range k {
		copy(centroids[i*dim:(i+1)*dim], vectors[perm[i]*dim:(perm[i]+1)*dim])
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	counts := make([]int, k)
	sums := make([]float64, k*dim)

	for range maxIter {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		changed := false

		// Assignment step
		for i := range n {
			best := nearest(vectors[i*dim:(i+1)*dim], centroids, dim)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed {
			break
		}

		// Update step
		clear(sums)
		clear(counts)

		for i := range n {
			cluster := assignments[i]
			vec := vectors[i*dim : (i+1)*dim]
			for d := range dim {
				sums[cluster*dim+d] += vec[d]
			}
			counts[cluster]++
		}

		for j := range k {
			if counts[j] > 0 {
				scale := 1.0 / float64(counts[j])
				for d := range dim {
					centroids[j*dim+d] = sums[j*dim+d] * scale
				}
			} else {
				// Re-seed an empty cluster from a random point.
				idx := rng.Intn(n)
				copy(centroids[j*dim:(j+1)*dim], vectors[idx*dim:(idx+1)*dim])
			}
		}
	}

	// Re-seeding may have moved a centroid after the last assignment.
	for i := range n {
		assignments[i] = nearest(vectors[i*dim:(i+1)*dim], centroids, dim)
	}

	return centroids, assignments, nil
}

// AssignPartition returns the index of the centroid closest to vec.
func AssignPartition(vec []float64, centroids []float64, dim int) (int, error) {
	if dim < 1 || len(vec) != dim || len(centroids) < dim || len(centroids)%dim != 0 {
		return -1, fmt.Errorf("%w: vec=%d centroids=%d dim=%d", ErrInvalidArgument, len(vec), len(centroids), dim)
	}
	return nearest(vec, centroids, dim), nil
}

func nearest(vec []float64, centroids []float64, dim int) int {
	best := 0
	minDist := math.Inf(1)
	for j := range len(centroids) / dim {
		d := distance.Euclidean(vec, centroids[j*dim:(j+1)*dim])
		if d < minDist {
			minDist = d
			best = j
		}
	}
	return best
}
