package pixelsom

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/arklab/pixelsom/codec"
	"github.com/arklab/pixelsom/internal/snapshot"
)

const (
	// DefaultSigma is the initial neighborhood spread.
	DefaultSigma = 1.0
	// DefaultLearningRate is the initial learning rate.
	DefaultLearningRate = 0.5
	// DefaultSeed seeds grid initialization when WithSeed is not given, so
	// repeated runs in the same configuration are reproducible.
	DefaultSeed int64 = 0
	// DefaultProgressInterval is the minimum gap between training progress logs.
	DefaultProgressInterval = 5 * time.Second
	// DefaultMaxIterations bounds Metacluster's k-means loop.
	DefaultMaxIterations = 100
)

// Compression selects snapshot block compression for Save.
type Compression = snapshot.Compression

const (
	CompressionNone = snapshot.CompressionNone
	CompressionLZ4  = snapshot.CompressionLZ4
	CompressionZSTD = snapshot.CompressionZSTD
)

type options struct {
	sigma            float64
	learningRate     float64
	seed             int64
	workers          int
	checkEvery       int
	progressInterval time.Duration
	maxIterations    int
	compression      Compression
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Train, Assign, Evaluate, Metacluster, Save and Load.
// Options that do not apply to an operation are ignored by it.
type Option func(*options)

// WithSigma sets the initial neighborhood spread. Must be positive and finite.
func WithSigma(sigma float64) Option {
	return func(o *options) {
		o.sigma = sigma
	}
}

// WithLearningRate sets the initial learning rate. Must be positive and finite.
func WithLearningRate(lr float64) Option {
	return func(o *options) {
		o.learningRate = lr
	}
}

// WithSeed seeds grid initialization (Train) and centroid selection
// (Metacluster). Two calls with identical inputs and seed produce
// bit-identical results.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers bounds the goroutines used by Assign and Evaluate.
// 0 selects GOMAXPROCS. Training is always sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCheckEvery sets how many training steps run between context checks.
// 0 selects the default (1024).
func WithCheckEvery(n int) Option {
	return func(o *options) {
		o.checkEvery = n
	}
}

// WithProgressInterval sets the minimum gap between training progress log
// lines. 0 disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithMaxIterations bounds the k-means iterations of Metacluster.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithCompression selects the block compression used by Save.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCodec configures the codec used for the snapshot header written by Save.
//
// If nil is passed, codec.Default is used. Load always uses the codec
// recorded in the snapshot.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pixelsom.BasicMetricsCollector{}
//	grid, _ := pixelsom.Train(ctx, samples, 10, 10, 5, pixelsom.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Steps: %d, Avg latency: %dns\n", stats.TrainSteps, stats.TrainAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pixelsom.NewJSONLogger(slog.LevelInfo)
//	grid, _ := pixelsom.Train(ctx, samples, 10, 10, 5, pixelsom.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		sigma:            DefaultSigma,
		learningRate:     DefaultLearningRate,
		seed:             DefaultSeed,
		progressInterval: DefaultProgressInterval,
		maxIterations:    DefaultMaxIterations,
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// validate checks the options shared by every operation.
func (o *options) validate() error {
	switch {
	case o.workers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, o.workers)
	case o.checkEvery < 0:
		return fmt.Errorf("%w: check interval must be >= 0, got %d", ErrInvalidConfig, o.checkEvery)
	case o.progressInterval < 0:
		return fmt.Errorf("%w: progress interval must be >= 0, got %s", ErrInvalidConfig, o.progressInterval)
	}
	return nil
}
