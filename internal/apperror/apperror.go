// Package apperror defines the outcome taxonomy the service layer hands
// to the HTTP boundary: NotFound, RuleViolation, InvalidArgument and
// Unexpected. Storage-level sentinels stay inside the domain packages;
// the services wrap them here together with the ids involved so the
// boundary can render a message without re-querying.
package apperror

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindRuleViolation
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRuleViolation:
		return "rule_violation"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind    Kind
	Code    string // short machine code, e.g. "already_registered"
	Message string
	Err     error // wrapped cause, nil for pure business outcomes
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func RuleViolation(code, format string, args ...any) *Error {
	return &Error{Kind: KindRuleViolation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Unexpected wraps a storage or infrastructure failure. The cause is kept
// for logging; it is never retried by the core.
func Unexpected(err error, format string, args ...any) *Error {
	return &Error{Kind: KindUnexpected, Code: "internal", Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf classifies any error; non-taxonomy errors read as Unexpected.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnexpected
}

// CodeOf returns the machine code, or "internal" for foreign errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "internal"
}
