package ransac

import "errors"

var (
	// ErrDuplicateSample marks a draw where two of the three indices coincide.
	ErrDuplicateSample = errors.New("duplicate sample indices")

	// ErrDegenerateFit marks a fitted circle with a non-finite center or radius.
	ErrDegenerateFit = errors.New("circle illegal: degenerate fit")

	// ErrInsufficientEdgePoints means fewer than three edge points remain.
	ErrInsufficientEdgePoints = errors.New("insufficient edge points")

	// ErrInvalidConfig is wrapped by Config.Validate failures.
	ErrInvalidConfig = errors.New("invalid config")
)
