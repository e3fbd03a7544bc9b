package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found in this poll")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidPollID  = errors.New("invalid poll id")
	ErrForbidden      = errors.New("not allowed to perform this action")
	ErrPollExpired    = errors.New("poll has expired")
	ErrMinOptions     = errors.New("a poll must keep at least two options")
	ErrSelfDemotion   = errors.New("admins cannot remove their own admin role")
	ErrUsernameTaken  = errors.New("username already taken")
	ErrValidation     = errors.New("validation failed")
	ErrInternal       = errors.New("internal server error")
)

// ValidationError carries field-level detail for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
