package som

import (
	"fmt"
	"math"

	"github.com/arklab/pixelsom/distance"
)

// Winner returns the coordinate of the prototype nearest (Euclidean) to
// sample. When several prototypes are equidistant the one with the smallest
// flat (row-major) index wins. The grid is not modified.
func Winner(sample []float64, g *Grid) (Coord, error) {
	best, _, _, err := nearest(sample, g, false)
	if err != nil {
		return Coord{}, err
	}
	return g.CoordOf(best), nil
}

// WinnerPair returns the best and second-best neurons for sample and the
// distance to the best one. ok is false when the grid has a single neuron.
func WinnerPair(sample []float64, g *Grid) (first, second Coord, dist float64, ok bool, err error) {
	best, runnerUp, bestDist, err := nearest(sample, g, true)
	if err != nil {
		return Coord{}, Coord{}, 0, false, err
	}
	if runnerUp < 0 {
		return g.CoordOf(best), Coord{}, bestDist, false, nil
	}
	return g.CoordOf(best), g.CoordOf(runnerUp), bestDist, true, nil
}

func nearest(sample []float64, g *Grid, second bool) (int, int, float64, error) {
	if len(sample) != g.C {
		return -1, -1, 0, &DimensionMismatchError{Expected: g.C, Actual: len(sample), Row: -1}
	}

	best, runnerUp := -1, -1
	bestDist, runnerUpDist := math.Inf(1), math.Inf(1)

	for i := range g.Len() {
		d := distance.Euclidean(sample, g.At(i))
		if math.IsNaN(d) {
			return -1, -1, 0, fmt.Errorf("%w: NaN distance to prototype %v", ErrNumericDegeneracy, g.CoordOf(i))
		}
		// Strict comparisons keep the first minimum in scan order.
		if d < bestDist {
			if second {
				runnerUp, runnerUpDist = best, bestDist
			}
			best, bestDist = i, d
		} else if second && d < runnerUpDist {
			runnerUp, runnerUpDist = i, d
		}
	}

	if best < 0 {
		return -1, -1, 0, fmt.Errorf("%w: every prototype is at infinite distance", ErrNumericDegeneracy)
	}
	if second && runnerUp < 0 && g.Len() > 1 {
		return -1, -1, 0, fmt.Errorf("%w: no finite second-best prototype", ErrNumericDegeneracy)
	}
	return best, runnerUp, bestDist, nil
}
