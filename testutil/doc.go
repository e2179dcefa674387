// Package testutil provides testing utilities for pixelsom.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for sample matrices and brute-force
// reference implementations to check results against.
//
// # Sample Generation
//
//	rng := testutil.NewRNG(seed)
//	samples := rng.UniformMatrix(1000, 3)         // values in [0, 1)
//	pixels := rng.IntensityMatrix(1000, 4)        // integers in [0, 255]
//	rows, truth := rng.ClusteredMatrix(1000, 3, 4, 10, 0.1)
//
// # Ground Truth
//
//	x, y := testutil.BruteForceWinner(weights, gx, gy, c, row)
//	ok := testutil.SameClustering(labels, truth)
package testutil
