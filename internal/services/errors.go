package services

import (
	"errors"
	"fmt"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

var (
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrMentorNotFound = errors.New("mentor not found")
)

// ValidationError reports a malformed or out-of-range input field. Checked
// before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError carries the sessions whose windows intersect the requested
// one, so the caller can disambiguate.
type ConflictError struct {
	Conflicts []models.ConflictingSession
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("requested time conflicts with %d existing session(s)", len(e.Conflicts))
}

// PolicyError reports an eligibility rule violation (cancel window,
// reschedule window, reschedule limit, state gate). The record is left
// unchanged.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}
