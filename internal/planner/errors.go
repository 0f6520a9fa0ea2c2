package planner

import "errors"

var (
	// ErrInvalidSamples indicates a sample count below one.
	ErrInvalidSamples = errors.New("invalid sample count")

	// ErrInvalidStart indicates a 96-well start column outside the plate.
	ErrInvalidStart = errors.New("invalid start column")

	// ErrInvalidWell indicates a 384-well label that cannot be parsed.
	ErrInvalidWell = errors.New("invalid well label")

	// ErrCapacity96 indicates the run needs more columns than the 96-well plate has left.
	ErrCapacity96 = errors.New("96-well plate capacity exceeded")

	// ErrCapacity384 indicates the run needs more column pairs than the 384-well plate has left.
	ErrCapacity384 = errors.New("384-well plate capacity exceeded")
)
