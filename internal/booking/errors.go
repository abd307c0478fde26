package booking

import (
	"errors"
	"fmt"
)

// Kind discriminates booking failures so callers can map them to a
// response without parsing messages.
type Kind int

const (
	// KindValidation: required selection missing or malformed input.
	// Rejected before any store call.
	KindValidation Kind = iota
	// KindConflict: the proposed slot overlaps an existing appointment.
	KindConflict
	// KindRateLimit: the client exceeded the trailing-window booking cap.
	KindRateLimit
	// KindTransient: a store call failed; the caller may retry.
	KindTransient
)

// Error carries a user-facing message plus its kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictErr(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func rateLimitErr(limit int, windowMinutes int) *Error {
	return &Error{
		Kind: KindRateLimit,
		Message: fmt.Sprintf("only %d bookings are allowed within %d minutes",
			limit, windowMinutes),
	}
}

func transientErr(message string, err error) *Error {
	return &Error{Kind: KindTransient, Message: message, Err: err}
}

// KindOf extracts the failure kind; non-booking errors read as transient.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindTransient
}
