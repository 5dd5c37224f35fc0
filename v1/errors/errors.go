package errors

import "errors"

var (
	ErrNotPowerOfTwo = errors.New("pool size and parallelism must be powers of two")
	ErrTooManyLayers = errors.New("layer id exceeds detector table bound")
	ErrCrossPool     = errors.New("guard transfer across different pools")
)
