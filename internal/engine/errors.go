package engine

import "errors"

var (
	// ErrInvalidTrials rejects a start request for a non-positive or
	// non-numeric trial count.
	ErrInvalidTrials = errors.New("engine: trial count must be a positive integer")

	// ErrRunning rejects a start request while another run is active.
	ErrRunning = errors.New("engine: a run is already in progress")

	// ErrInvalidConfig indicates a batch size, sample interval or delay
	// outside the valid range.
	ErrInvalidConfig = errors.New("engine: invalid configuration")
)
