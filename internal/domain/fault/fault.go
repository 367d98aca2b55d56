// Package fault classifies storage-layer failures into a small closed
// taxonomy that callers can branch on without string matching. Domain
// packages keep their own sentinel errors; fault wraps them with the
// violated invariant class and the offending identifier.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindAlreadyExists Kind = "already_exists"
	KindNotAuthorized Kind = "not_authorized"
	KindInvalidValue  Kind = "invalid_value"
	KindConflict      Kind = "concurrent_conflict"
	KindDeleteFailed  Kind = "delete_failed"
	KindDepthLimit    Kind = "depth_limit_exceeded"
)

// Error carries the classification alongside the entity kind and the
// identifier that violated the invariant. It unwraps to the domain
// sentinel so errors.Is keeps working for callers that prefer it.
type Error struct {
	Kind   Kind
	Entity string
	Ref    string
	Err    error
}

func (e *Error) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s %s: %v", e.Entity, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q %s: %v", e.Entity, e.Ref, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(entity, ref string, err error) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Ref: ref, Err: err}
}

func AlreadyExists(entity, ref string, err error) *Error {
	return &Error{Kind: KindAlreadyExists, Entity: entity, Ref: ref, Err: err}
}

func NotAuthorized(entity, ref string, err error) *Error {
	return &Error{Kind: KindNotAuthorized, Entity: entity, Ref: ref, Err: err}
}

func InvalidValue(entity, ref string, err error) *Error {
	return &Error{Kind: KindInvalidValue, Entity: entity, Ref: ref, Err: err}
}

func Conflict(entity, ref string, err error) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Ref: ref, Err: err}
}

func DeleteFailed(entity, ref string, err error) *Error {
	return &Error{Kind: KindDeleteFailed, Entity: entity, Ref: ref, Err: err}
}

func DepthLimit(entity, ref string, err error) *Error {
	return &Error{Kind: KindDepthLimit, Entity: entity, Ref: ref, Err: err}
}

// KindOf reports the classification of err, or "" when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
