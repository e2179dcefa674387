package som

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/arklab/pixelsom/distance"
)

// Coord is a neuron position on the grid.
type Coord struct {
	X int
	Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Grid holds X*Y prototype vectors of C channels each.
// Weights is flattened row-major over (x, y, c), so the flat neuron index of
// (x, y) is x*Y + y.
type Grid struct {
	X       int
	Y       int
	C       int
	Weights []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(x, y, c int) *Grid {
	return &Grid{
		X:       x,
		Y:       y,
		C:       c,
		Weights: make([]float64, x*y*c),
	}
}

// NewRandomGrid seeds every component uniformly in [-1, 1) from rng and then
// unit-normalizes each prototype. rng is consumed in (x, y, c) order.
func NewRandomGrid(x, y, c int, rng *rand.Rand) (*Grid, error) {
	if x < 1 || y < 1 || c < 1 {
		return nil, fmt.Errorf("%w: grid shape %dx%dx%d", ErrInvalidConfig, x, y, c)
	}
	g := NewGrid(x, y, c)
	for i := range g.Weights {
		g.Weights[i] = rng.Float64()*2 - 1
	}
	for i := range g.Len() {
		if !distance.NormalizeL2InPlace(g.At(i)) {
			return nil, fmt.Errorf("%w: prototype %v initialized with zero norm", ErrNumericDegeneracy, g.CoordOf(i))
		}
	}
	return g, nil
}

// Len returns the number of neurons.
func (g *Grid) Len() int {
	return g.X * g.Y
}

// Index returns the flat neuron index of c.
func (g *Grid) Index(c Coord) int {
	return c.X*g.Y + c.Y
}

// CoordOf returns the coordinate of flat neuron index i.
func (g *Grid) CoordOf(i int) Coord {
	return Coord{X: i / g.Y, Y: i % g.Y}
}

// Contains reports whether c lies on the grid.
func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.X && c.Y >= 0 && c.Y < g.Y
}

// At returns the prototype of flat neuron index i.
// The returned slice aliases the grid.
func (g *Grid) At(i int) []float64 {
	off := i * g.C
	return g.Weights[off : off+g.C : off+g.C]
}

// Prototype returns the prototype at c. The returned slice aliases the grid.
func (g *Grid) Prototype(c Coord) []float64 {
	return g.At(g.Index(c))
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{
		X:       g.X,
		Y:       g.Y,
		C:       g.C,
		Weights: slices.Clone(g.Weights),
	}
}

// Mesh holds the grid-index coordinates of every neuron, indexed by flat
// neuron index: X[i] is the x index and Y[i] the y index of neuron i.
type Mesh struct {
	X []float64
	Y []float64
}

// NewMesh builds the coordinate mesh for an x by y grid.
func NewMesh(x, y int) *Mesh {
	m := &Mesh{
		X: make([]float64, x*y),
		Y: make([]float64, x*y),
	}
	for i := range x {
		for j := range y {
			m.X[i*y+j] = float64(i)
			m.Y[i*y+j] = float64(j)
		}
	}
	return m
}
