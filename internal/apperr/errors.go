// Package apperr defines the error taxonomy shared by the registry,
// dispatcher, correlator and persistence layers. Callers match with
// errors.Is / errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a prompt, model or setting does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned for malformed input, before any I/O.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateName is returned when a model name is already taken.
	ErrDuplicateName = errors.New("model name already exists")

	// ErrMissingCredential is returned when the named credential reference
	// resolves to nothing in the environment or the OS keyring.
	ErrMissingCredential = errors.New("credential not found")

	// ErrTimeout is returned when a single model call exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrUnsupportedModelType is returned for a model_type with no
	// registered provider variant.
	ErrUnsupportedModelType = errors.New("unsupported model type")

	// ErrIntegrity is returned when a result write references a prompt or
	// model that does not exist.
	ErrIntegrity = errors.New("foreign key violation")

	// ErrModelInUse blocks hard-deleting a model that has saved results.
	ErrModelInUse = errors.New("model has saved results")
)

// RemoteError carries the status and body of a non-2xx endpoint response
// for diagnostics. The body is truncated by the dispatcher before storage.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote endpoint returned %d: %s", e.StatusCode, e.Body)
}
