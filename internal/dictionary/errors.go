package dictionary

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by every failed lookup, whether the dictionary has no
	// entry for the word or the request never completed.
	ErrNotFound = errors.New("word not found")

	// ErrEmptyWord is returned when the lookup term is blank
	ErrEmptyWord = errors.New("word must not be empty")
)

// StatusError records a non-success HTTP status from the dictionary API
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// NotFoundError is returned when a lookup produced no usable result.
// Cause is nil for a genuine 404 or empty answer and holds the transport,
// status or decode failure otherwise.
type NotFoundError struct {
	Word  string
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%q not found in dictionary", e.Word)
	}
	return fmt.Sprintf("%q not found in dictionary: %v", e.Word, e.Cause)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// Transient reports whether the lookup failed for a reason other than the
// dictionary answering that it does not know the word.
func (e *NotFoundError) Transient() bool {
	return e.Cause != nil
}
