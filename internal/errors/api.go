package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthRequired means no usable credential exists; the caller must log in again.
	ErrAuthRequired = errors.New("authentication required")
	// ErrExhausted is the server's "no more questions" signal.
	ErrExhausted = errors.New("no more questions available")
	// ErrCanceled is returned when the user declines a confirmation.
	ErrCanceled = errors.New("canceled by user")
)

// Kind classifies a non-success API response.
type Kind string

const (
	KindValidation Kind = "validation"
	KindDomain     Kind = "domain"
)

// DetailItem is one entry of a structured `detail` list.
type DetailItem struct {
	Loc  []interface{} `json:"loc"`
	Msg  string        `json:"msg"`
	Type string        `json:"type,omitempty"`
}

// Location renders loc the way it is shown to users ("body -> name").
func (d DetailItem) Location() string {
	parts := make([]string, 0, len(d.Loc))
	for _, l := range d.Loc {
		parts = append(parts, fmt.Sprint(l))
	}
	return strings.Join(parts, " -> ")
}

// APIError is a non-success response that was not an authentication failure.
type APIError struct {
	Kind       Kind
	StatusCode int
	Method     string
	Path       string
	Message    string
	Details    []DetailItem
	Body       []byte // raw response body
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// AuthExpiredError is an unauthorized response; the stored credential has been cleared.
type AuthExpiredError struct {
	Method string
	Path   string
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("%s %s: session expired", e.Method, e.Path)
}

func (e *AuthExpiredError) Unwrap() error { return ErrAuthRequired }

// TransportError means the request never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport error: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

const (
	TransportMessage    = "A network error occurred. Please try again."
	AuthRequiredMessage = "Session expired. Please log in again."
)

// IsAuthRequired reports whether the caller must send the user back to login.
func IsAuthRequired(err error) bool {
	return errors.Is(err, ErrAuthRequired)
}

// IsValidation reports a structured validation error returned by the server.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}

// IsDomain reports a single-message error returned by the server.
func IsDomain(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindDomain
}

// IsTransport reports a request that never completed.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsLocalValidation reports missing user input caught before any request.
func IsLocalValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsExhausted reports the end of the question pool.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message converts any client error into the text shown next to the triggering control.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var (
		ve     ValidationErrors
		apiErr *APIError
	)
	switch {
	case IsAuthRequired(err):
		return AuthRequiredMessage
	case errors.As(err, &ve):
		return ve.Display()
	case errors.As(err, &apiErr):
		return apiErr.Message
	case IsTransport(err):
		return TransportMessage
	case errors.Is(err, ErrExhausted):
		return "Congratulations! No more questions available."
	default:
		return err.Error()
	}
}
