// Package prometheus exports pixelsom operation metrics through
// github.com/prometheus/client_golang.
//
//	reg := prometheus.NewRegistry()
//	c, err := pixelprom.NewCollector(reg)
//	grid, err := pixelsom.Train(ctx, samples, 10, 10, 5, pixelsom.WithMetricsCollector(c))
package prometheus
