// Package pixelsom clusters pixels with a self-organizing map.
//
// Samples are an N by C matrix: one row per pixel, one column per channel
// (intensity, color band, spectral band, ...). Train fits a rectangular
// grid of prototype vectors to the rows; Assign labels every row with its
// nearest prototype, so pixels that share a prototype share a cluster.
//
// # Quick Start
//
//	ctx := context.Background()
//	grid, err := pixelsom.Train(ctx, samples, 10, 10, 5, pixelsom.WithSeed(42))
//	if err != nil {
//		return err
//	}
//	a, err := pixelsom.Assign(ctx, grid, samples)
//	labels := a.Labels() // dense in [0, a.K())
//
// # Training
//
// Training visits rows in order, numPasses times. At global step t of T
// (T = numPasses * N) the neighborhood spread and the learning rate are
// both decayed as p / (1 + t/(T/2)). The winning neuron is the prototype
// nearest to the row in Euclidean distance; every prototype then moves
// toward the row by a Gaussian weight of its grid distance to the winner.
// Training is sequential and, for a given seed, bit-for-bit reproducible.
//
// # Assignment and Quality
//
// Assign and Evaluate only read the grid and search rows in parallel
// (WithWorkers). Labels are numbered in order of first appearance, so the
// same grid and samples always produce the same labels. Evaluate reports
// quantization and topographic error; Metacluster groups the neurons
// themselves with k-means for a coarser segmentation.
//
// # Persistence
//
// Save and Load write a grid to any blobstore.Store: in memory, on local
// disk (read back through mmap), in MinIO or in S3. Snapshots carry their
// training parameters, are versioned and validated on load, and may be
// compressed with LZ4 or Zstandard.
//
// # Observability
//
// Pass WithLogger for structured slog output and WithMetricsCollector for
// counters; see metrics/prometheus for a Prometheus collector.
package pixelsom
