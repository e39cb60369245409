package atto

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a ParseError per the taxonomy in 7.
type ErrorKind int

const (
	// MalformedStructure: an artifact start was recognized but never
	// terminated (e.g. an unterminated comment at end-of-input).
	MalformedStructure ErrorKind = iota
	// UnexpectedStructure: a structure appeared where the configured
	// dialect/policy does not allow it (e.g. a close tag with an empty
	// stack in strict mode).
	UnexpectedStructure
	// ConfigurationViolation: an artifact violates a configured policy
	// (duplicate attribute under UniqueAttributesRequired, a forbidden
	// DOCTYPE, etc).
	ConfigurationViolation
	// HandlerError: a handler callback returned an error; it is
	// propagated unchanged, wrapped only with position context.
	HandlerError
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedStructure:
		return "malformed structure"
	case UnexpectedStructure:
		return "unexpected structure"
	case ConfigurationViolation:
		return "configuration violation"
	case HandlerError:
		return "handler error"
	default:
		return "unknown"
	}
}

// ParseError is the concrete error type returned from Parse. It always
// carries the line/column of the offending character and, via
// github.com/pkg/errors, a captured stack trace from the point the error
// was raised.
type ParseError struct {
	Kind      ErrorKind
	Line, Col int
	cause     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("atto: %s at %d:%d: %v", e.Kind, e.Line, e.Col, e.cause)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error { return e.cause }

// Cause returns the original error, unwrapping any github.com/pkg/errors
// wrapping performed internally.
func (e *ParseError) Cause() error { return errors.Cause(e.cause) }

func newParseError(kind ErrorKind, line, col int, msg string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:  kind,
		Line:  line,
		Col:   col,
		cause: errors.WithStack(fmt.Errorf(msg, args...)),
	}
}

func malformedStructureErr(line, col int, msg string, args ...interface{}) *ParseError {
	return newParseError(MalformedStructure, line, col, msg, args...)
}

func unexpectedStructureErr(line, col int, msg string, args ...interface{}) *ParseError {
	return newParseError(UnexpectedStructure, line, col, msg, args...)
}

func configurationViolationErr(line, col int, msg string, args ...interface{}) *ParseError {
	return newParseError(ConfigurationViolation, line, col, msg, args...)
}

// handlerErr wraps an error raised by a handler callback, preserving it as
// the Cause while attaching the position at which it was raised.
func handlerErr(line, col int, err error) *ParseError {
	return &ParseError{
		Kind:  HandlerError,
		Line:  line,
		Col:   col,
		cause: errors.Wrap(err, "handler"),
	}
}
