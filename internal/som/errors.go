package som

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned for out-of-range training parameters.
	ErrInvalidConfig = errors.New("som: invalid configuration")
	// ErrEmptySamples is returned when the sample matrix has no rows or no channels.
	ErrEmptySamples = errors.New("som: empty sample matrix")
	// ErrNonFinite is returned when a sample contains NaN or Inf.
	ErrNonFinite = errors.New("som: non-finite sample value")
	// ErrNumericDegeneracy is returned when a computation would produce NaN/Inf
	// (collapsed kernel width, zero-norm prototype, NaN distance).
	ErrNumericDegeneracy = errors.New("som: numeric degeneracy")
	// ErrTrainerState is returned when Run is called on a trainer that already ran.
	ErrTrainerState = errors.New("som: trainer is not in the initialized state")
)

// DimensionMismatchError reports a channel-count mismatch.
// Row is the offending sample row, or -1 when not tied to a row.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	Row      int
}

func (e *DimensionMismatchError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("som: dimension mismatch: expected %d channels, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("som: dimension mismatch at row %d: expected %d channels, got %d", e.Row, e.Expected, e.Actual)
}
