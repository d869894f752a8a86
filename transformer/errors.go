package transformer

import "errors"

var (
	// ErrOutOfRange is returned when a token id lies outside [0, vocabSize).
	ErrOutOfRange = errors.New("index out of range")
	// ErrInvalidArgument is returned on shape mismatches and out-of-domain
	// scalar parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)
