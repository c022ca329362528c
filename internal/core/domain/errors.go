package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	ErrMissionNotFound  = errors.New("mission not found")
	ErrMissionExists    = errors.New("mission already exists")
	ErrMissionInactive  = errors.New("mission is not active")
	ErrAlreadyCompleted = errors.New("mission already completed")

	// ErrRevisionConflict is returned by the ledger store when the user record
	// changed between load and commit.
	ErrRevisionConflict = errors.New("ledger revision conflict")

	// ErrStorageUnavailable marks persistence failures that survived retries.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrValidation = errors.New("validation failed")
)

// ErrorKind groups errors by how a caller should react to them.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindTransient    ErrorKind = "transient"
	KindInternal     ErrorKind = "internal"
)

// KindOf classifies err. Rejections are checked before the sentinels they wrap.
func KindOf(err error) ErrorKind {
	var rej *Rejection
	if errors.As(err, &rej) {
		if rej.Reason == ReasonUnknownMission {
			return KindNotFound
		}
		return KindConflict
	}

	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMissionNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrMissionInactive),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrMissionExists),
		errors.Is(err, ErrRevisionConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrStorageUnavailable):
		return KindTransient
	}
	return KindInternal
}

// IsRetryable reports whether repeating the same call can succeed. Besides
// transient storage failures this covers a ledger that stayed contended for
// every attempt.
func IsRetryable(err error) bool {
	return KindOf(err) == KindTransient || errors.Is(err, ErrRevisionConflict)
}

// ValidationError carries field-level detail for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
