package backend

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated covers 401 responses and missing tokens. Callers clear
// local auth state and route the operator to login.
var ErrUnauthenticated = errors.New("backend: unauthenticated")

// ConflictError carries the backend's explanation for a 409, e.g. deleting a
// product that still has open orders. The message is shown to the operator
// verbatim and no retry is attempted.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("backend: conflict: %s", e.Message)
}

// ValidationError maps a 422 response: field-keyed messages plus the overall
// message. Form state is preserved by callers so the operator can correct it.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("backend: validation failed: %s", e.Message)
}

// APIError is the fallback for unexpected statuses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}
