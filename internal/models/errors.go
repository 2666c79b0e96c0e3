package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrApartmentNotFound  = errors.New("models: apartment not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrAlreadyReviewed    = errors.New("review already exists")
	ErrForbidden          = errors.New("models: action not permitted")
	ErrAlreadyBooked      = errors.New("models: apartment already booked by user")
	ErrNotAvailable       = errors.New("models: apartment not available for booking")
)

// ValidationError carries field-level messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can `return verr.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
