package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuizNotFound maps to a 404 at the transport layer.
var ErrQuizNotFound = errors.New("quiz not found")

// RequestError is a user-facing validation failure (HTTP 400). Messages
// usually holds a single entry; field-level checks may report several.
type RequestError struct {
	Messages []string
}

func (e *RequestError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func newRequestError(format string, args ...interface{}) *RequestError {
	return &RequestError{Messages: []string{fmt.Sprintf(format, args...)}}
}
