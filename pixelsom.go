package pixelsom

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/arklab/pixelsom/internal/conv"
	"github.com/arklab/pixelsom/internal/som"
	"golang.org/x/time/rate"
)

// Coord identifies a neuron by its (x, y) grid index.
type Coord = som.Coord

// Params records how a grid was trained.
type Params struct {
	Passes       int
	Sigma        float64
	LearningRate float64
	Seed         int64
	// Samples is the number of sample rows trained on.
	Samples int
}

// Grid is a trained, immutable prototype grid of X*Y neurons with C
// channels each. It is safe for concurrent use.
type Grid struct {
	g      *som.Grid
	params Params
}

// NewGrid builds a Grid from row-major (x, y, c) weights, for example
// prototypes trained elsewhere. weights is copied.
func NewGrid(x, y, c int, weights []float64) (*Grid, error) {
	n, err := conv.MulInt(x, y, c)
	if err != nil || x < 1 || y < 1 || c < 1 {
		return nil, fmt.Errorf("%w: grid %dx%dx%d", ErrInvalidConfig, x, y, c)
	}
	if len(weights) != n {
		return nil, &ErrDimensionMismatch{Expected: n, Actual: len(weights), Row: -1}
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %d", ErrNonFinite, i)
		}
	}
	g := som.NewGrid(x, y, c)
	copy(g.Weights, weights)
	return &Grid{g: g}, nil
}

// Dims returns the grid shape.
func (g *Grid) Dims() (x, y, c int) {
	return g.g.X, g.g.Y, g.g.C
}

// Prototype returns a copy of the prototype at (x, y), or nil when the
// coordinate is outside the grid.
func (g *Grid) Prototype(x, y int) []float64 {
	c := Coord{X: x, Y: y}
	if !g.g.Contains(c) {
		return nil
	}
	return slices.Clone(g.g.Prototype(c))
}

// Weights returns a copy of all weights in row-major (x, y, c) order.
func (g *Grid) Weights() []float64 {
	return slices.Clone(g.g.Weights)
}

// Params returns the training parameters. Grids built with NewGrid return
// the zero value.
func (g *Grid) Params() Params {
	return g.params
}

// Equal reports whether both grids have the same shape and bit-identical
// weights.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.g.X != o.g.X || g.g.Y != o.g.Y || g.g.C != o.g.C {
		return false
	}
	for i, w := range g.g.Weights {
		if math.Float64bits(w) != math.Float64bits(o.g.Weights[i]) {
			return false
		}
	}
	return true
}

// Train fits an xNeurons by yNeurons self-organizing map to samples, an N by
// C matrix of per-pixel channel intensities, by visiting every row numPasses
// times in order. It returns a grid of shape (xNeurons, yNeurons, C).
//
// Training is sequential and deterministic for a given seed (WithSeed,
// default DefaultSeed). The context is checked between steps; on
// cancellation Train returns ctx.Err() and no grid.
func Train(ctx context.Context, samples [][]float64, xNeurons, yNeurons, numPasses int, opts ...Option) (grid *Grid, err error) {
	o := applyOptions(opts)
	log := o.logger.WithGrid(xNeurons, yNeurons, rowWidth(samples)).WithSamples(len(samples))
	start := time.Now()
	steps := 0
	defer func() {
		took := time.Since(start)
		o.metricsCollector.RecordTrain(len(samples), steps, took, err)
		log.LogTrain(ctx, numPasses, steps, o.seed, took, err)
	}()

	if err := o.validate(); err != nil {
		return nil, err
	}
	cfg := som.Config{
		X:            xNeurons,
		Y:            yNeurons,
		Passes:       numPasses,
		Sigma:        o.sigma,
		LearningRate: o.learningRate,
		CheckEvery:   o.checkEvery,
	}
	if err := cfg.Validate(); err != nil {
		return nil, translateError(err)
	}
	channels, err := som.ValidateSamples(samples)
	if err != nil {
		return nil, translateError(err)
	}

	if o.progressInterval > 0 && log.Enabled(ctx, slog.LevelInfo) {
		sometimes := rate.Sometimes{Interval: o.progressInterval}
		cfg.Progress = func(p som.Progress) {
			sometimes.Do(func() {
				log.LogProgress(ctx, p.Step+1, p.Total, p.Sigma, p.LearningRate)
			})
		}
	}

	tr, err := som.NewTrainer(cfg, channels, rand.New(rand.NewSource(o.seed)))
	if err != nil {
		return nil, translateError(err)
	}
	steps, err = tr.Steps(len(samples))
	if err != nil {
		return nil, translateError(err)
	}
	g, err := tr.Run(ctx, samples)
	if err != nil {
		return nil, translateError(err)
	}

	return &Grid{
		g: g,
		params: Params{
			Passes:       numPasses,
			Sigma:        o.sigma,
			LearningRate: o.learningRate,
			Seed:         o.seed,
			Samples:      len(samples),
		},
	}, nil
}

func rowWidth(samples [][]float64) int {
	if len(samples) == 0 {
		return 0
	}
	return len(samples[0])
}

// Assignment is the cluster label of every sample row plus a per-label
// membership index.
type Assignment struct {
	labels  []int
	order   []Coord
	members []*roaring.Bitmap
}

// Labels returns a copy of the per-row labels. Labels are dense in [0, K)
// and numbered in order of first appearance, so row 0 always has label 0.
func (a *Assignment) Labels() []int {
	return slices.Clone(a.labels)
}

// K returns the number of distinct labels.
func (a *Assignment) K() int {
	return len(a.order)
}

// Coord returns the winning neuron that label stands for.
// It panics if label is not in [0, K).
func (a *Assignment) Coord(label int) Coord {
	return a.order[label]
}

// Members returns a copy of the set of rows carrying label.
// It panics if label is not in [0, K).
func (a *Assignment) Members(label int) *roaring.Bitmap {
	return a.members[label].Clone()
}

// Sizes returns the row count of every label.
func (a *Assignment) Sizes() []int {
	sizes := make([]int, len(a.members))
	for i, m := range a.members {
		sizes[i] = int(m.GetCardinality())
	}
	return sizes
}

// Assign labels every sample row with its nearest prototype in grid. Rows
// are searched in parallel (WithWorkers); labels are then numbered
// sequentially in row order. The grid is not modified.
func Assign(ctx context.Context, grid *Grid, samples [][]float64, opts ...Option) (a *Assignment, err error) {
	o := applyOptions(opts)
	start := time.Now()
	defer func() {
		k := 0
		if a != nil {
			k = a.K()
		}
		took := time.Since(start)
		o.metricsCollector.RecordAssign(len(samples), k, took, err)
		o.logger.WithSamples(len(samples)).LogAssign(ctx, k, took, err)
	}()

	if err := o.validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, ErrNilGrid
	}
	if _, err := conv.IntToUint32(len(samples)); err != nil {
		return nil, fmt.Errorf("%w: %d rows exceed the membership index", ErrInvalidConfig, len(samples))
	}

	coords, err := som.Winners(ctx, grid.g, samples, o.workers)
	if err != nil {
		return nil, translateError(err)
	}
	labels, order := som.DenseLabels(coords)

	members := make([]*roaring.Bitmap, len(order))
	for i := range members {
		members[i] = roaring.New()
	}
	for row, l := range labels {
		members[l].Add(uint32(row))
	}
	for _, m := range members {
		m.RunOptimize()
	}

	return &Assignment{labels: labels, order: order, members: members}, nil
}
