package engine

import (
	"errors"

	"github.com/danieljhkim/platerun/internal/runs"
)

var (
	// ErrValidation indicates the run parameters failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a run record was not found.
	ErrNotFound = runs.ErrNotFound
)
