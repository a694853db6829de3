package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")

	ErrInvalidState = errors.New("operation is not legal for the current status")
	ErrForbidden    = errors.New("actor is not allowed to perform this operation")

	// ErrNoVolunteerAvailable is returned when the assignment policy finds an
	// empty candidate pool during initial task creation. Reassignment after a
	// reject degrades softly instead and never surfaces this error.
	ErrNoVolunteerAvailable = errors.New("no verified active volunteer available")
)

type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from '%s' to '%s'", e.Entity, e.From, e.To)
}
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidState }

type AlreadyRatedError struct {
	DonationID string
	RatedBy    string
}

func (e *AlreadyRatedError) Error() string {
	return fmt.Sprintf("donation '%s' was already rated by '%s'", e.DonationID, e.RatedBy)
}
func (e *AlreadyRatedError) Is(target error) bool { return target == ErrAlreadyExists }
