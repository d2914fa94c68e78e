package engine

import (
	"errors"
	"fmt"
)

// Kind categorizes a rejected operation.
type Kind string

const (
	// KindAuthorization means the caller has not proven control of an identity.
	KindAuthorization Kind = "authorization"

	// KindNotFound means a community, objective, action, claim or membership is unknown.
	KindNotFound Kind = "not_found"

	// KindValidation means an argument is malformed or out of range.
	KindValidation Kind = "validation"

	// KindState means the entity is not in a state that allows the operation.
	KindState Kind = "state"

	// KindDuplicate means a uniqueness rule would be violated.
	KindDuplicate Kind = "duplicate"

	// KindIssuer means the reward issuer rejected a call made by the operation.
	KindIssuer Kind = "issuer"
)

// Error is returned when an operation is rejected. A rejected operation has
// no persisted side effects.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op is the operation that was rejected, e.g. "cast_vote".
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsAuthorization returns true if err is an authorization rejection.
func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }

// IsNotFound returns true if err reports an unknown entity.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation returns true if err reports a malformed argument.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsState returns true if err reports a disallowed state transition.
func IsState(err error) bool { return KindOf(err) == KindState }

// IsDuplicate returns true if err reports a uniqueness violation.
func IsDuplicate(err error) bool { return KindOf(err) == KindDuplicate }

// IsIssuer returns true if err reports a rejected issuer call.
func IsIssuer(err error) bool { return KindOf(err) == KindIssuer }

func newError(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}
