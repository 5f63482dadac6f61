package service

import (
	"errors"
	"fmt"

	"session-scheduler/internal/model"
	"session-scheduler/internal/repository/base"
)

// Error taxonomy of the scheduling core. Callers branch on these with
// errors.Is; everything unexpected from the persistence layer surfaces as
// ErrPersistence with no partial mutation committed.
var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence failure")
)

// classify maps a transaction error onto the taxonomy. Sentinels pass
// through untouched, a unique-index violation means a lost booking race.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, model.ErrInvalidInterval):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	case base.IsUniqueViolation(err):
		return fmt.Errorf("%w: concurrent booking won the race", ErrConflict)
	default:
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
}
