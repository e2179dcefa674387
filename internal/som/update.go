package som

import (
	"fmt"
	"math"
)

// Update pulls every prototype toward sample:
//
//	d      = 2*pi*sigma^2
//	w(x,y) = exp(-(mx-mx_win)^2/d) * exp(-(my-my_win)^2/d) * learningRate
//	new    = old + w * (sample - old)
//
// The grid is mutated in place. Inputs and every new value are checked
// before the first write, so a failed call leaves the grid untouched. A
// value that overflows to Inf or NaN is ErrNumericDegeneracy.
func Update(sample []float64, g *Grid, win Coord, sigma, learningRate float64, mesh *Mesh) error {
	if len(sample) != g.C {
		return &DimensionMismatchError{Expected: g.C, Actual: len(sample), Row: -1}
	}
	if !g.Contains(win) {
		return fmt.Errorf("%w: winner %v outside %dx%d grid", ErrInvalidConfig, win, g.X, g.Y)
	}
	if mesh == nil || len(mesh.X) != g.Len() || len(mesh.Y) != g.Len() {
		return fmt.Errorf("%w: mesh does not match %dx%d grid", ErrInvalidConfig, g.X, g.Y)
	}
	if !(learningRate > 0) || math.IsInf(learningRate, 0) {
		return fmt.Errorf("%w: learning rate %g", ErrInvalidConfig, learningRate)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: sigma %g", ErrNumericDegeneracy, sigma)
	}

	d := 2 * math.Pi * sigma * sigma
	if d == 0 || math.IsInf(d, 0) {
		return fmt.Errorf("%w: neighborhood width %g underflows for sigma %g", ErrNumericDegeneracy, d, sigma)
	}

	w := g.Index(win)
	wx, wy := mesh.X[w], mesh.Y[w]
	pull := func(i int) float64 {
		dx := mesh.X[i] - wx
		dy := mesh.Y[i] - wy
		return math.Exp(-(dx*dx)/d) * math.Exp(-(dy*dy)/d) * learningRate
	}

	// Check pass: the write pass below recomputes identical values.
	for i := range g.Len() {
		h := pull(i)
		if h == 0 {
			continue
		}
		proto := g.At(i)
		for c, s := range sample {
			if v := proto[c] + h*(s-proto[c]); math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: prototype %v overflows at channel %d (learning rate %g)",
					ErrNumericDegeneracy, g.CoordOf(i), c, learningRate)
			}
		}
	}

	for i := range g.Len() {
		h := pull(i)
		if h == 0 {
			continue
		}
		proto := g.At(i)
		for c, s := range sample {
			proto[c] += h * (s - proto[c])
		}
	}
	return nil
}
