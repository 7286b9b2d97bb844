package entity

import (
	"errors"
	"fmt"
)

// Domain errors shared across the client state machines.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrTokenExpired     = errors.New("access token expired")
	ErrNoActiveSession  = errors.New("no active conversation session")
	ErrSessionReadOnly  = errors.New("session is read-only while viewing history")
	ErrPendingStep      = errors.New("scripted reply pending; continue the scenario first")
	ErrSessionComplete  = errors.New("session already completed")
	ErrWrongMode        = errors.New("operation not available in this conversation mode")
	ErrEmptyMessage     = errors.New("message text must not be empty")
	ErrInvalidTopic     = errors.New("topic must not be empty")
	ErrQuizNotActive    = errors.New("quiz is not accepting answers")
	ErrReviewNotActive  = errors.New("review session is not active")
	ErrInvalidGrade     = errors.New("invalid review grade")
	ErrUnknownQuestion  = errors.New("unknown question kind")
)

// APIError carries a server-supplied failure message alongside the HTTP status.
// Detail holds the backend's `detail` field when the error body could be
// decoded, and a generic message otherwise.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Detail, e.Status)
}
