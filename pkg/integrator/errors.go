package integrator

import "errors"

var (
	ErrInvalidExponent = errors.New("integrator: power heuristic exponent must be positive")
	ErrInvalidDepth    = errors.New("integrator: invalid path depth")
	ErrInvalidConfig   = errors.New("integrator: invalid metropolis configuration")
)
