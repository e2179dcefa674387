package pixelsom

import (
	"errors"
	"fmt"

	"github.com/arklab/pixelsom/blobstore"
	"github.com/arklab/pixelsom/internal/kmeans"
	"github.com/arklab/pixelsom/internal/snapshot"
	"github.com/arklab/pixelsom/internal/som"
)

var (
	// ErrInvalidConfig is returned for out-of-range parameters. Values are
	// never clamped.
	ErrInvalidConfig = errors.New("pixelsom: invalid configuration")
	// ErrEmptySamples is returned for a sample matrix with no rows or no
	// channels. Such errors also match ErrInvalidConfig.
	ErrEmptySamples = errors.New("pixelsom: empty sample matrix")
	// ErrNonFinite is returned when the sample matrix contains NaN or Inf.
	ErrNonFinite = errors.New("pixelsom: non-finite sample value")
	// ErrNumericDegeneracy is returned when the arithmetic collapses: a
	// vanishing neighborhood width, a zero-norm initial prototype or a NaN
	// distance.
	ErrNumericDegeneracy = errors.New("pixelsom: numeric degeneracy")
	// ErrNilGrid is returned when a nil *Grid is passed.
	ErrNilGrid = errors.New("pixelsom: nil grid")
	// ErrNotFound is returned by Load when the named snapshot does not exist.
	ErrNotFound = errors.New("pixelsom: snapshot not found")
	// ErrCorruptSnapshot is returned by Load for bytes that are not a valid
	// snapshot of a supported version.
	ErrCorruptSnapshot = errors.New("pixelsom: corrupt snapshot")
)

// ErrDimensionMismatch indicates a ragged sample matrix or a channel count
// that does not match the grid. It matches ErrInvalidConfig under errors.Is.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	// Row is the offending sample row, or -1 when not row-specific.
	Row   int
	cause error
}

func (e *ErrDimensionMismatch) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("pixelsom: dimension mismatch: expected %d channels, got %d", e.Expected, e.Actual)
	}
	return fmt.Sprintf("pixelsom: dimension mismatch at row %d: expected %d channels, got %d", e.Row, e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidConfig.
func (e *ErrDimensionMismatch) Is(target error) bool { return target == ErrInvalidConfig }

// translateError maps internal errors onto the public sentinels. Context
// errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *som.DimensionMismatchError
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, Row: dm.Row, cause: err}
	}

	switch {
	case errors.Is(err, som.ErrInvalidConfig),
		errors.Is(err, kmeans.ErrInvalidArgument),
		errors.Is(err, kmeans.ErrTooFewVectors),
		errors.Is(err, snapshot.ErrInvalidGrid),
		errors.Is(err, snapshot.ErrUnknownCompression),
		errors.Is(err, snapshot.ErrUnknownCodec):
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	case errors.Is(err, som.ErrEmptySamples):
		return fmt.Errorf("%w: %w: %w", ErrInvalidConfig, ErrEmptySamples, err)
	case errors.Is(err, som.ErrNonFinite):
		return fmt.Errorf("%w: %w", ErrNonFinite, err)
	case errors.Is(err, som.ErrNumericDegeneracy):
		return fmt.Errorf("%w: %w", ErrNumericDegeneracy, err)
	}
	return err
}

// translateLoadError maps storage and decoding failures. Every snapshot
// validation error means the stored bytes are unusable.
func translateLoadError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, blobstore.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, snapshot.ErrCorrupt),
		errors.Is(err, snapshot.ErrUnsupportedVersion),
		errors.Is(err, snapshot.ErrUnknownCodec),
		errors.Is(err, snapshot.ErrUnknownCompression),
		errors.Is(err, snapshot.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return err
}
