package som

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/arklab/pixelsom/distance"
)

// DefaultCheckEvery is the number of steps between context checks.
const DefaultCheckEvery = 1024

// State is the lifecycle state of a Trainer.
type State int

const (
	StateInitialized State = iota
	StateTraining
	StateTrained
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateTraining:
		return "training"
	case StateTrained:
		return "trained"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress describes one completed training step.
type Progress struct {
	Step         int
	Total        int
	Sigma        float64
	LearningRate float64
	Winner       Coord
}

// Config holds the training parameters.
type Config struct {
	X            int
	Y            int
	Passes       int
	Sigma        float64
	LearningRate float64

	// CheckEvery is the number of steps between context checks.
	// Values <= 0 select DefaultCheckEvery.
	CheckEvery int

	// Progress, if set, is called after every step.
	Progress func(Progress)
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	switch {
	case c.X < 1 || c.Y < 1:
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.X, c.Y)
	case c.Passes < 1:
		return fmt.Errorf("%w: passes must be positive, got %d", ErrInvalidConfig, c.Passes)
	case !(c.Sigma > 0) || math.IsInf(c.Sigma, 0):
		return fmt.Errorf("%w: sigma must be positive and finite, got %g", ErrInvalidConfig, c.Sigma)
	case !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0):
		return fmt.Errorf("%w: learning rate must be positive and finite, got %g", ErrInvalidConfig, c.LearningRate)
	}
	return nil
}

// Trainer owns a prototype grid through Initialized -> Training -> Trained.
// A Trainer runs once.
type Trainer struct {
	cfg   Config
	grid  *Grid
	mesh  *Mesh
	state State
}

// NewTrainer validates cfg and seeds a random grid of the given channel count.
// rng is used for initialization only.
func NewTrainer(cfg Config, channels int, rng *rand.Rand) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random generator", ErrInvalidConfig)
	}
	if cfg.CheckEvery <= 0 {
		cfg.CheckEvery = DefaultCheckEvery
	}
	grid, err := NewRandomGrid(cfg.X, cfg.Y, channels, rng)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		cfg:   cfg,
		grid:  grid,
		mesh:  NewMesh(cfg.X, cfg.Y),
		state: StateInitialized,
	}, nil
}

// State returns the current lifecycle state.
func (t *Trainer) State() State {
	return t.state
}

// Steps returns the total step count for n sample rows.
func (t *Trainer) Steps(n int) (int, error) {
	if n < 1 {
		return 0, ErrEmptySamples
	}
	if t.cfg.Passes > math.MaxInt/n {
		return 0, fmt.Errorf("%w: %d passes over %d rows overflows the step counter", ErrInvalidConfig, t.cfg.Passes, n)
	}
	return t.cfg.Passes * n, nil
}

// Run performs Passes full passes over samples, visiting row t mod N at
// global step t, and returns the trained grid. The context is only observed
// between steps. On any error the trainer moves to StateFailed and no grid
// is returned.
func (t *Trainer) Run(ctx context.Context, samples [][]float64) (*Grid, error) {
	if t.state != StateInitialized {
		return nil, fmt.Errorf("%w: %s", ErrTrainerState, t.state)
	}
	if err := ValidateSamplesFor(samples, t.grid); err != nil {
		t.state = StateFailed
		return nil, err
	}
	total, err := t.Steps(len(samples))
	if err != nil {
		t.state = StateFailed
		return nil, err
	}

	t.state = StateTraining
	n := len(samples)

	for step := range total {
		if step%t.cfg.CheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				t.state = StateFailed
				return nil, err
			}
		}

		row := samples[step%n]
		sigma := Decay(t.cfg.Sigma, step, total)
		lr := Decay(t.cfg.LearningRate, step, total)

		win, err := Winner(row, t.grid)
		if err != nil {
			t.state = StateFailed
			return nil, fmt.Errorf("step %d: %w", step, err)
		}
		if err := Update(row, t.grid, win, sigma, lr, t.mesh); err != nil {
			t.state = StateFailed
			return nil, fmt.Errorf("step %d: %w", step, err)
		}

		if t.cfg.Progress != nil {
			t.cfg.Progress(Progress{
				Step:         step,
				Total:        total,
				Sigma:        sigma,
				LearningRate: lr,
				Winner:       win,
			})
		}
	}

	if !distance.AllFinite(t.grid.Weights) {
		t.state = StateFailed
		return nil, fmt.Errorf("%w: trained grid has non-finite weights", ErrNumericDegeneracy)
	}

	t.state = StateTrained
	grid := t.grid
	t.grid = nil
	return grid, nil
}
