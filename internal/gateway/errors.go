package gateway

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthorized is returned for every 401. By the time a caller sees it the OnUnauthorized
// hook has already run.
var ErrUnauthorized = errors.New("gateway: session rejected by backend")

// APIError is a non-2xx response other than 401.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// NetworkError means the backend could not be reached or answered with something unreadable.
// It never says anything about the session.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError is a form problem found before any request was sent.
type ValidationError struct {
	Problems map[string]any
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Problems))
	for field, problem := range e.Problems {
		fields = append(fields, fmt.Sprintf("%s %v", field, problem))
	}
	sort.Strings(fields)
	return "invalid input: " + strings.Join(fields, ", ")
}

func validate(problems map[string]any) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
