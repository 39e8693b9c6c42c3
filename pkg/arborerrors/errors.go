// Package arborerrors provides structured error handling for Arbor with rich
// context, stack traces, and error categorization.
//
// Every engine operation that can fail returns one of these errors; the engine
// never panics on caller mistakes and never returns a partial result alongside
// an error. Errors carry a Type for dispatch, key-value Details for context,
// and the call stack captured at the creation point.
//
//	if err := op(); arborerrors.IsType(err, arborerrors.ErrorTypeColumnNotFound) {
//	    // the named column does not exist in the table's schema
//	}
//
// Float edge cases (division by zero, NaN) are defined numeric outcomes, not
// errors, and never surface through this package.
package arborerrors

import (
	"errors"
	"runtime"

	stringpool "github.com/arbordata/arbor/pkg/strings"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeInternal represents internal engine errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeColumnNotFound represents a column name that resolved to no schema field
	ErrorTypeColumnNotFound ErrorType = "column_not_found"
	// ErrorTypeUnsupportedType represents an operation applied to a column of the wrong type
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"
	// ErrorTypeEmptyKeyList represents a group-by invoked with zero key columns
	ErrorTypeEmptyKeyList ErrorType = "empty_key_list"
	// ErrorTypeShapeMismatch represents mismatched lengths, e.g. mask length vs row count
	ErrorTypeShapeMismatch ErrorType = "shape_mismatch"
	// ErrorTypeIngest represents failures propagated from the external table reader
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeNotFound represents a released or stale handle
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents invalid construction arguments
	ErrorTypeValidation ErrorType = "validation"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// NewColumnNotFound creates the error returned whenever a column name
// resolves to no schema field.
func NewColumnNotFound(name string) *Error {
	return &Error{
		Type:    ErrorTypeColumnNotFound,
		Message: stringpool.Sprintf("column %q not found", name),
		Details: map[string]interface{}{"column": name},
		Stack:   captureStack(2),
	}
}

// NewUnsupportedType creates the error returned when an operation is applied
// to a column whose element type it cannot handle.
func NewUnsupportedType(name, expected, actual string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedType,
		Message: stringpool.Sprintf("column %q has type %s, want %s", name, actual, expected),
		Details: map[string]interface{}{
			"column":   name,
			"expected": expected,
			"actual":   actual,
		},
		Stack: captureStack(2),
	}
}

// NewShapeMismatch creates the error returned when two lengths that must
// agree do not.
func NewShapeMismatch(message string, want, got int) *Error {
	return &Error{
		Type:    ErrorTypeShapeMismatch,
		Message: message,
		Details: map[string]interface{}{"want": want, "got": got},
		Stack:   captureStack(2),
	}
}

// captureStack captures the current call stack.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
