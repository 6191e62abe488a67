package fractal

import "errors"

var (
	// ErrDepthOutOfRange is returned when a depth lies outside [MinDepth, MaxDepth].
	ErrDepthOutOfRange = errors.New("fractal: depth out of range")

	// ErrInvalidSettings is returned for non-positive tuning constants.
	ErrInvalidSettings = errors.New("fractal: invalid settings")

	// ErrInactive is returned by Update when the controller holds no tree.
	ErrInactive = errors.New("fractal: controller is not active")

	// ErrInvalidDelta is returned when a frame is skipped because of a bad time step.
	ErrInvalidDelta = errors.New("fractal: invalid frame delta")

	// ErrOrderingViolation is the panic value raised when a level is advanced
	// before its parent level in the same frame.
	ErrOrderingViolation = errors.New("fractal: level updated before its parent")
)
