package errors

import (
	"github.com/cockroachdb/errors"
)

// Builder collects hints on an error and finishes by marking it with one of
// the sentinels. Mark must be the last call in the chain.
type Builder struct {
	err error
}

func NewError(msg string) *Builder {
	return &Builder{err: errors.New(msg)}
}

func WithError(err error) *Builder {
	return &Builder{err: err}
}

// WithHint adds a message meant for API consumers.
func (b *Builder) WithHint(hint string) *Builder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

func (b *Builder) WithHintf(format string, args ...any) *Builder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

func (b *Builder) Mark(reference error) error {
	return errors.Mark(b.err, reference)
}

// NotFound reports a missing record, e.g. NotFound("submission", "SUB-1").
func NotFound(kind, id string) error {
	return NewError(kind+" not found").
		WithHintf("%s %s not found", kind, id).
		Mark(ErrNotFound)
}

// AlreadyExists reports a record whose id is taken.
func AlreadyExists(kind, id string) error {
	return NewError(kind+" already exists").
		WithHintf("%s %s already exists", kind, id).
		Mark(ErrAlreadyExists)
}

func Validation(hint string) error {
	return NewError("invalid input").
		WithHint(hint).
		Mark(ErrValidation)
}

// Forbidden reads as "You are not allowed to <action>".
func Forbidden(action string) error {
	return NewError("actor lacks required role").
		WithHintf("You are not allowed to %s", action).
		Mark(ErrPermissionDenied)
}

// InvalidOperation rejects a request the current state does not allow.
func InvalidOperation(msg, hint string) error {
	return NewError(msg).
		WithHint(hint).
		Mark(ErrInvalidOperation)
}

// Database wraps a storage failure of op, e.g. "load submission".
func Database(err error, op string) error {
	return WithError(err).
		WithHintf("failed to %s", op).
		Mark(ErrDatabase)
}

// Delivery wraps a failed push or mail. Callers log it, never return it.
func Delivery(err error, hint string) error {
	return WithError(err).
		WithHint(hint).
		Mark(ErrDelivery)
}
