package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrSeed        = errors.New("seed must be a non-negative integer")
)
