package boxmodel

import "errors"

// Domain errors for simulation inputs.
var (
	// ErrInvalidSteps indicates a step count that cannot produce a trajectory.
	ErrInvalidSteps = errors.New("boxmodel: steps must be at least 1")
)
