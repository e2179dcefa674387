package som

import (
	"context"
	"fmt"
)

// Winners returns the winning coordinate of every sample row, in row order.
// Rows are searched in parallel; the grid is only read.
func Winners(ctx context.Context, g *Grid, samples [][]float64, workers int) ([]Coord, error) {
	if err := ValidateSamplesFor(samples, g); err != nil {
		return nil, err
	}
	coords := make([]Coord, len(samples))
	err := forEachRow(ctx, len(samples), workers, func(i int) error {
		c, err := Winner(samples[i], g)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		coords[i] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coords, nil
}

// DenseLabels collapses coords to labels in [0, K). Labels are assigned in
// order of first occurrence, so the first row always gets 0 and equal
// coordinates always share a label. order[label] is the label's coordinate.
func DenseLabels(coords []Coord) (labels []int, order []Coord) {
	labels = make([]int, len(coords))
	seen := make(map[Coord]int)
	for i, c := range coords {
		l, ok := seen[c]
		if !ok {
			l = len(order)
			seen[c] = l
			order = append(order, c)
		}
		labels[i] = l
	}
	return labels, order
}
