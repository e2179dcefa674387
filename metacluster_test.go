package pixelsom

import (
	"context"
	"math"
	"testing"

	"github.com/arklab/pixelsom/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBandGrid is a 2x2 single-channel grid whose rows form two clear groups.
func twoBandGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(2, 2, 1, []float64{0, 0.1, 10, 10.1})
	require.NoError(t, err)
	return g
}

func TestMetacluster(t *testing.T) {
	ctx := context.Background()
	grid := twoBandGrid(t)

	for seed := range int64(8) {
		m, err := Metacluster(ctx, grid, 2, WithSeed(seed))
		require.NoError(t, err)

		assert.Equal(t, 2, m.K())
		assert.Equal(t, m.Of(Coord{X: 0, Y: 0}), m.Of(Coord{X: 0, Y: 1}))
		assert.Equal(t, m.Of(Coord{X: 1, Y: 0}), m.Of(Coord{X: 1, Y: 1}))
		assert.NotEqual(t, m.Of(Coord{X: 0, Y: 0}), m.Of(Coord{X: 1, Y: 0}))

		low := m.Of(Coord{X: 0, Y: 0})
		assert.InDelta(t, 0.05, m.Centroid(low)[0], 1e-9)
		assert.InDelta(t, 10.05, m.Centroid(1-low)[0], 1e-9)
	}
}

func TestMetacluster_Of(t *testing.T) {
	m, err := Metacluster(context.Background(), twoBandGrid(t), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, m.Of(Coord{X: 1, Y: 1}))
	assert.Equal(t, -1, m.Of(Coord{X: 2, Y: 0}))
	assert.Equal(t, -1, m.Of(Coord{X: 0, Y: -1}))
}

func TestMetacluster_Deterministic(t *testing.T) {
	ctx := context.Background()
	samples := testutil.NewRNG(30).UniformMatrix(300, 3)
	grid, err := Train(ctx, samples, 5, 4, 1)
	require.NoError(t, err)

	a, err := Metacluster(ctx, grid, 4, WithSeed(9))
	require.NoError(t, err)
	b, err := Metacluster(ctx, grid, 4, WithSeed(9))
	require.NoError(t, err)

	for x := range 5 {
		for y := range 4 {
			c := Coord{X: x, Y: y}
			assert.Equal(t, a.Of(c), b.Of(c))
		}
	}
	for i := range a.K() {
		assert.Equal(t, a.Centroid(i), b.Centroid(i))
	}
}

func TestMetacluster_Relabel(t *testing.T) {
	ctx := context.Background()
	grid := twoBandGrid(t)

	a, err := Assign(ctx, grid, [][]float64{{0}, {10}, {0.1}, {10.1}})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, a.Labels())

	m, err := Metacluster(ctx, grid, 2)
	require.NoError(t, err)

	out := m.Relabel(a)
	require.Len(t, out, 4)
	assert.Equal(t, out[0], out[2])
	assert.Equal(t, out[1], out[3])
	assert.NotEqual(t, out[0], out[1])
}

func TestMetacluster_Errors(t *testing.T) {
	ctx := context.Background()
	grid := twoBandGrid(t)

	_, err := Metacluster(ctx, nil, 1)
	assert.ErrorIs(t, err, ErrNilGrid)

	_, err = Metacluster(ctx, grid, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Metacluster(ctx, grid, 5)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Metacluster(ctx, grid, 2, WithMaxIterations(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Metacluster(cctx, grid, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetacluster_CentroidIsCopy(t *testing.T) {
	m, err := Metacluster(context.Background(), twoBandGrid(t), 2)
	require.NoError(t, err)

	c := m.Centroid(0)
	c[0] = -1
	assert.NotEqual(t, -1.0, m.Centroid(0)[0])
}

func TestMetacluster_Nearest(t *testing.T) {
	grid := twoBandGrid(t)
	m, err := Metacluster(context.Background(), grid, 2)
	require.NoError(t, err)

	low := m.Of(Coord{X: 0, Y: 0})
	for _, v := range []float64{-3, 0, 0.05, 4.9} {
		got, err := m.Nearest([]float64{v})
		require.NoError(t, err)
		assert.Equal(t, low, got, "value %g", v)
	}
	for _, v := range []float64{5.2, 10.05, 100} {
		got, err := m.Nearest([]float64{v})
		require.NoError(t, err)
		assert.Equal(t, 1-low, got, "value %g", v)
	}

	// Every prototype lands in its own neuron's metacluster.
	for x := range 2 {
		for y := range 2 {
			c := Coord{X: x, Y: y}
			got, err := m.Nearest(grid.Prototype(x, y))
			require.NoError(t, err)
			assert.Equal(t, m.Of(c), got)
		}
	}
}

func TestMetacluster_NearestErrors(t *testing.T) {
	m, err := Metacluster(context.Background(), twoBandGrid(t), 2)
	require.NoError(t, err)

	_, err = m.Nearest([]float64{1, 2})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = m.Nearest(nil)
	assert.ErrorAs(t, err, &dm)

	_, err = m.Nearest([]float64{math.NaN()})
	assert.ErrorIs(t, err, ErrNonFinite)
}
