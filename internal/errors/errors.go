// Package errors provides structured error types for agentdeck.
// These errors carry the operation that failed, a category, and for
// backend failures the HTTP status and decoded error payload.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindConfig
	KindValidation
	KindServer
	KindHTTP
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindValidation:
		return "validation error"
	case KindServer:
		return "server error"
	case KindHTTP:
		return "http error"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for agentdeck.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context, shown to the user

	// Status is the HTTP status code for backend failures, 0 otherwise.
	Status int
	// Details is the decoded JSON error body, if the backend sent one.
	Details any
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		if e.Err == nil {
			return fmt.Sprintf("%s: %s", e.Op, e.Context)
		}
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
// - int: HTTP status
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		case int:
			e.Status = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Message returns the user-facing message of err without the operation
// prefix. For plain errors it is err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Context != "" {
		return e.Context
	}
	return Message(e.Err)
}

// Backend errors

// NetworkFailure reports that the backend at url could not be reached.
func NetworkFailure(op Op, url string, err error) error {
	return &Error{
		Op:   op,
		Kind: KindNetwork,
		Err:  err,
		Context: "Network error: Could not connect to backend. Make sure the backend is running and " +
			"CORS is configured. Tried to reach: " + url,
	}
}

// HTTPFailure reports a non-2xx backend response. The kind follows the
// status: 500 is a server error, 422 a validation error.
func HTTPFailure(op Op, status int, message string, details any) error {
	kind := KindHTTP
	switch status {
	case 500:
		kind = KindServer
		message = "Backend server error (500). The backend may have a response model mismatch. Details: " + message
	case 422:
		kind = KindValidation
		message = "Validation error (422). " + message
	}
	return &Error{
		Op:      op,
		Kind:    kind,
		Err:     errors.New(message),
		Status:  status,
		Details: details,
	}
}

// InvalidResponse reports a 2xx body that could not be decoded.
func InvalidResponse(op Op, err error) error {
	return E(op, KindInvalidResponse, "backend returned an unreadable response", err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Attachment errors
func AttachmentNotFound(path string, err error) error {
	return E(Op("attachment.FromPath"), KindNotFound, fmt.Sprintf("file %s not found", path), err)
}

func AttachmentInvalid(path, reason string) error {
	return E(Op("attachment.FromPath"), KindInvalid, fmt.Sprintf("%s: %s", path, reason))
}
