package pixelsom

import (
	"context"
	"math"
	"testing"

	"github.com/arklab/pixelsom/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPointSamples() [][]float64 {
	return [][]float64{{1, 0}, {0, 1}, {1, 0}, {0, 1}}
}

func TestTrainAndAssign(t *testing.T) {
	ctx := context.Background()
	samples := twoPointSamples()

	grid, err := Train(ctx, samples, 2, 1, 1, WithSeed(7))
	require.NoError(t, err)

	x, y, c := grid.Dims()
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
	assert.Equal(t, 2, c)
	assert.Equal(t, Params{Passes: 1, Sigma: DefaultSigma, LearningRate: DefaultLearningRate, Seed: 7, Samples: 4}, grid.Params())

	a, err := Assign(ctx, grid, samples)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, a.Labels())
	assert.Equal(t, 2, a.K())
	assert.Equal(t, []int{2, 2}, a.Sizes())
	assert.Equal(t, []uint32{0, 2}, a.Members(0).ToArray())
	assert.Equal(t, []uint32{1, 3}, a.Members(1).ToArray())
	assert.NotEqual(t, a.Coord(0), a.Coord(1))
}

func TestTrain_InvalidConfig(t *testing.T) {
	ctx := context.Background()
	samples := twoPointSamples()

	tests := []struct {
		name string
		x, y int
		n    int
		opts []Option
	}{
		{"ZeroPasses", 2, 1, 0, nil},
		{"ZeroWidth", 0, 1, 1, nil},
		{"NegativeHeight", 2, -1, 1, nil},
		{"ZeroSigma", 2, 1, 1, []Option{WithSigma(0)}},
		{"InfSigma", 2, 1, 1, []Option{WithSigma(math.Inf(1))}},
		{"NegativeLearningRate", 2, 1, 1, []Option{WithLearningRate(-0.1)}},
		{"NaNLearningRate", 2, 1, 1, []Option{WithLearningRate(math.NaN())}},
		{"NegativeWorkers", 2, 1, 1, []Option{WithWorkers(-1)}},
		{"NegativeCheckEvery", 2, 1, 1, []Option{WithCheckEvery(-1)}},
		{"NegativeProgressInterval", 2, 1, 1, []Option{WithProgressInterval(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Train(ctx, samples, tt.x, tt.y, tt.n, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, grid)
		})
	}
}

func TestTrain_InvalidSamples(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		_, err := Train(ctx, nil, 2, 2, 1)
		assert.ErrorIs(t, err, ErrEmptySamples)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("NoChannels", func(t *testing.T) {
		_, err := Train(ctx, [][]float64{{}, {}}, 2, 2, 1)
		assert.ErrorIs(t, err, ErrEmptySamples)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Ragged", func(t *testing.T) {
		_, err := Train(ctx, [][]float64{{1, 2}, {3}}, 2, 2, 1)
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
		assert.Equal(t, 1, dm.Actual)
		assert.Equal(t, 1, dm.Row)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("NaN", func(t *testing.T) {
		_, err := Train(ctx, [][]float64{{1, 2}, {math.NaN(), 0}}, 2, 2, 1)
		assert.ErrorIs(t, err, ErrNonFinite)
	})

	t.Run("Inf", func(t *testing.T) {
		_, err := Train(ctx, [][]float64{{math.Inf(-1)}}, 1, 1, 1)
		assert.ErrorIs(t, err, ErrNonFinite)
	})
}

func TestTrain_LearningRateOverflow(t *testing.T) {
	grid, err := Train(context.Background(), [][]float64{{1, 0}, {0, 1}}, 2, 1, 1, WithLearningRate(1e300))
	assert.ErrorIs(t, err, ErrNumericDegeneracy)
	assert.Nil(t, grid)
}

func TestTrain_Deterministic(t *testing.T) {
	ctx := context.Background()
	samples := testutil.NewRNG(5).UniformMatrix(200, 3)

	a, err := Train(ctx, samples, 4, 4, 2, WithSeed(3))
	require.NoError(t, err)
	b, err := Train(ctx, samples, 4, 4, 2, WithSeed(3))
	require.NoError(t, err)
	other, err := Train(ctx, samples, 4, 4, 2, WithSeed(4))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(other))
}

func TestTrain_DefaultSeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	samples := testutil.NewRNG(6).UniformMatrix(50, 2)

	a, err := Train(ctx, samples, 3, 2, 1)
	require.NoError(t, err)
	b, err := Train(ctx, samples, 3, 2, 1, WithSeed(DefaultSeed))
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, DefaultSeed, a.Params().Seed)
}

func TestTrain_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	grid, err := Train(ctx, twoPointSamples(), 2, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, grid)
}

func TestTrain_SamplesUnchanged(t *testing.T) {
	samples := twoPointSamples()

	_, err := Train(context.Background(), samples, 2, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, twoPointSamples(), samples)
}

func TestTrain_PrototypesStayInSampleHull(t *testing.T) {
	// Every update is a convex step toward a sample and initial prototypes
	// are unit vectors, so all weights stay in [-1, 1] for samples in [0, 1).
	samples := testutil.NewRNG(8).UniformMatrix(100, 3)

	grid, err := Train(context.Background(), samples, 3, 3, 2)
	require.NoError(t, err)
	for _, w := range grid.Weights() {
		assert.GreaterOrEqual(t, w, -1.0)
		assert.LessOrEqual(t, w, 1.0)
	}
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(21)
	samples := rng.UniformMatrix(1500, 3)

	grid, err := Train(ctx, samples[:300], 4, 3, 1, WithSeed(1))
	require.NoError(t, err)

	t.Run("MatchesBruteForce", func(t *testing.T) {
		a, err := Assign(ctx, grid, samples, WithWorkers(4))
		require.NoError(t, err)

		x, y, c := grid.Dims()
		weights := grid.Weights()
		labels := a.Labels()
		for i, row := range samples {
			bx, by := testutil.BruteForceWinner(weights, x, y, c, row)
			require.Equal(t, Coord{X: bx, Y: by}, a.Coord(labels[i]), "row %d", i)
		}
	})

	t.Run("DenseFirstOccurrence", func(t *testing.T) {
		a, err := Assign(ctx, grid, samples)
		require.NoError(t, err)

		labels := a.Labels()
		assert.Equal(t, 0, labels[0])
		next := 0
		total := 0
		for _, l := range labels {
			require.LessOrEqual(t, l, next)
			if l == next {
				next++
			}
		}
		assert.Equal(t, a.K(), next)
		for _, s := range a.Sizes() {
			assert.Positive(t, s)
			total += s
		}
		assert.Equal(t, len(samples), total)
	})

	t.Run("WorkerCountDoesNotMatter", func(t *testing.T) {
		one, err := Assign(ctx, grid, samples, WithWorkers(1))
		require.NoError(t, err)
		many, err := Assign(ctx, grid, samples, WithWorkers(8))
		require.NoError(t, err)
		assert.Equal(t, one.Labels(), many.Labels())
	})

	t.Run("GridUnchanged", func(t *testing.T) {
		before := grid.Weights()
		_, err := Assign(ctx, grid, samples)
		require.NoError(t, err)
		assert.Equal(t, before, grid.Weights())
	})

	t.Run("ChannelMismatch", func(t *testing.T) {
		_, err := Assign(ctx, grid, [][]float64{{1, 2}})
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 3, dm.Expected)
		assert.Equal(t, 2, dm.Actual)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.NotErrorIs(t, err, ErrNonFinite)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Assign(ctx, grid, nil)
		assert.ErrorIs(t, err, ErrEmptySamples)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("NilGrid", func(t *testing.T) {
		_, err := Assign(ctx, nil, samples)
		assert.ErrorIs(t, err, ErrNilGrid)
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		a, err := Assign(cctx, grid, samples)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, a)
	})
}

func TestAssignment_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	samples := twoPointSamples()
	grid, err := Train(ctx, samples, 2, 1, 1, WithSeed(7))
	require.NoError(t, err)
	a, err := Assign(ctx, grid, samples)
	require.NoError(t, err)

	labels := a.Labels()
	labels[0] = 99
	assert.Equal(t, 0, a.Labels()[0])

	m := a.Members(0)
	m.Add(1)
	assert.Equal(t, uint64(2), a.Members(0).GetCardinality())
}

func TestNewGrid(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		weights := []float64{1, 2, 3, 4, 5, 6}
		g, err := NewGrid(3, 1, 2, weights)
		require.NoError(t, err)

		weights[0] = 100
		assert.Equal(t, []float64{1, 2}, g.Prototype(0, 0))
		assert.Equal(t, []float64{5, 6}, g.Prototype(2, 0))
		assert.Nil(t, g.Prototype(3, 0))
		assert.Nil(t, g.Prototype(0, -1))
		assert.Equal(t, Params{}, g.Params())
	})

	t.Run("BadShape", func(t *testing.T) {
		_, err := NewGrid(0, 1, 1, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		_, err = NewGrid(1, 1, 0, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("WrongLength", func(t *testing.T) {
		_, err := NewGrid(2, 2, 1, []float64{1, 2, 3})
		var dm *ErrDimensionMismatch
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 4, dm.Expected)
		assert.Equal(t, 3, dm.Actual)
		assert.Equal(t, -1, dm.Row)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("NonFinite", func(t *testing.T) {
		_, err := NewGrid(1, 2, 1, []float64{0, math.NaN()})
		assert.ErrorIs(t, err, ErrNonFinite)
	})
}

func TestGrid_AccessorsReturnCopies(t *testing.T) {
	g, err := NewGrid(1, 2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	p := g.Prototype(0, 1)
	p[0] = 42
	w := g.Weights()
	w[0] = 42

	assert.Equal(t, []float64{3, 4}, g.Prototype(0, 1))
	assert.Equal(t, []float64{1, 2, 3, 4}, g.Weights())
}

func TestGrid_Equal(t *testing.T) {
	a, _ := NewGrid(1, 2, 1, []float64{1, 2})
	b, _ := NewGrid(1, 2, 1, []float64{1, 2})
	c, _ := NewGrid(2, 1, 1, []float64{1, 2})
	d, _ := NewGrid(1, 2, 1, []float64{1, math.Nextafter(2, 3)})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.False(t, a.Equal(nil))

	var nilGrid *Grid
	assert.True(t, nilGrid.Equal(nil))
}

func TestErrDimensionMismatch_Error(t *testing.T) {
	assert.Equal(t,
		"pixelsom: dimension mismatch at row 3: expected 2 channels, got 1",
		(&ErrDimensionMismatch{Expected: 2, Actual: 1, Row: 3}).Error())
	assert.Equal(t,
		"pixelsom: dimension mismatch: expected 4 channels, got 3",
		(&ErrDimensionMismatch{Expected: 4, Actual: 3, Row: -1}).Error())
}
