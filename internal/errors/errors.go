// Package errors provides the typed errors shared by the loaders, the matrix
// builder and the command line.
//
// Only failures that abort an operation are errors. Problems found in a single
// record of a price file are collected in the load audit instead.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeStartup indicates a failure that prevents any price loading
	TypeStartup Type = "STARTUP_ERROR"

	// TypeFormat indicates a source file that does not follow its naming convention
	TypeFormat Type = "FORMAT_ERROR"

	// TypeParsing indicates a value that could not be parsed
	TypeParsing Type = "PARSING_ERROR"

	// TypeInput indicates an unreadable or invalid toll document
	TypeInput Type = "INPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeIO indicates a file system error
	TypeIO Type = "IO_ERROR"

	// TypeInternal indicates an encoding failure or a broken invariant
	TypeInternal Type = "INTERNAL_ERROR"
)

// ExitCode is the process status reported for an error of this type
func (t Type) ExitCode() int {
	switch t {
	case TypeStartup:
		return 3
	case TypeInput, TypeConfig:
		return 2
	default:
		return 1
	}
}

// Error is a typed error with an optional cause and context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext attaches a key/value pair, typically the offending path
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a type and message to cause
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// TypeOf returns the type of the outermost *Error in the chain, or "" if none
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

// ExitCode maps an error to a process status: 0 for nil, 3 for startup
// failures, 2 for bad input or configuration and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return TypeOf(err).ExitCode()
}

// Startup creates a fatal startup error
func Startup(message string, cause error) *Error {
	return Wrap(TypeStartup, message, cause)
}

// Format creates a file naming convention error
func Format(message string) *Error {
	return New(TypeFormat, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Input creates a toll document error
func Input(message string, cause error) *Error {
	return Wrap(TypeInput, message, cause)
}

// IO creates a file system error
func IO(message string, cause error) *Error {
	return Wrap(TypeIO, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
