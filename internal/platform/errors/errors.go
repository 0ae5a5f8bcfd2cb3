package errors

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// Domain is the error domain for dislocation.network errors.
const Domain = "github.com/louisbranch/dislocation.network"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context
	Cause    error             // Wrapped underlying error

	// fatal marks an invariant violation. A fatal error means the
	// distributed state may already be corrupt; the orchestration layer
	// must translate it into a coordinated shutdown of every domain
	// rather than recover locally.
	fatal bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Fatal creates a fatal domain error. Use it for invariant violations where
// continuing would produce silently wrong results across domains.
func Fatal(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		fatal:   true,
	}
}

// FatalWithMetadata creates a fatal domain error with metadata.
func FatalWithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
		fatal:    true,
	}
}

// IsFatal reports whether any error in err's chain is a fatal domain error.
func IsFatal(err error) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.fatal {
			return true
		}
		err = e.Cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the domain code of err, or CodeUnknown when err carries no
// domain error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// ToGRPCStatus converts the error to a gRPC status with errdetails so the
// transport collaborator can ship structured failure context between
// domains.
func (e *Error) ToGRPCStatus() error {
	grpcCode := e.Code.GRPCCode()
	st := status.New(grpcCode, e.Message)

	st, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
	)
	if err != nil {
		// If we can't attach details, return the basic status
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}
