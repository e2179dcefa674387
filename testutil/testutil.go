package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformMatrix generates an n by c sample matrix with values in [0, 1).
// Rows share a single backing array.
func (r *RNG) UniformMatrix(n, c int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, n*c)
	rows := make([][]float64, n)
	for i := range n {
		row := data[i*c : (i+1)*c : (i+1)*c]
		for j := range row {
			row[j] = r.rand.Float64()
		}
		rows[i] = row
	}
	return rows
}

// IntensityMatrix generates an n by c matrix of 8-bit style channel
// intensities in [0, 255].
func (r *RNG) IntensityMatrix(n, c int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, n*c)
	rows := make([][]float64, n)
	for i := range n {
		row := data[i*c : (i+1)*c : (i+1)*c]
		for j := range row {
			row[j] = float64(r.rand.Intn(256))
		}
		rows[i] = row
	}
	return rows
}

// ClusteredMatrix generates n rows spread around k centers drawn from
// [0, scale)^c with Gaussian noise of the given spread. Row i belongs to
// center i%k, which is returned as its true label.
func (r *RNG) ClusteredMatrix(n, c, k int, scale, spread float64) ([][]float64, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([]float64, k*c)
	for i := range centers {
		centers[i] = r.rand.Float64() * scale
	}

	data := make([]float64, n*c)
	rows := make([][]float64, n)
	labels := make([]int, n)
	for i := range n {
		l := i % k
		center := centers[l*c : (l+1)*c]
		row := data[i*c : (i+1)*c : (i+1)*c]
		for j := range row {
			row[j] = center[j] + r.rand.NormFloat64()*spread
		}
		rows[i] = row
		labels[i] = l
	}
	return rows, labels
}

// BruteForceWinner returns the (x, y) index of the prototype nearest to row
// in row-major (x, y, c) weights. Ties keep the first index in scan order.
func BruteForceWinner(weights []float64, x, y, c int, row []float64) (int, int) {
	best, bx, by := math.Inf(1), 0, 0
	for i := range x {
		for j := range y {
			p := weights[(i*y+j)*c : (i*y+j+1)*c]
			var d float64
			for k, v := range row {
				diff := v - p[k]
				d += diff * diff
			}
			if d < best {
				best, bx, by = d, i, j
			}
		}
	}
	return bx, by
}

// SameClustering reports whether two labelings induce the same partition,
// regardless of how the labels are numbered.
func SameClustering(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	ab := make(map[int]int)
	ba := make(map[int]int)
	for i := range a {
		if v, ok := ab[a[i]]; ok && v != b[i] {
			return false
		}
		if v, ok := ba[b[i]]; ok && v != a[i] {
			return false
		}
		ab[a[i]] = b[i]
		ba[b[i]] = a[i]
	}
	return true
}
