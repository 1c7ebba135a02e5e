package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Error is a structured error with a stable code.
type Error struct {
	// Code is a unique error identifier (e.g. "E101").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, when the registry has one.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches two registry errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code != "" && t.Code == e.Code
}

// New creates an error from a registered code. Unknown codes produce a
// generic runtime error carrying the code so nothing is silently dropped.
func New(code string) *Error {
	if tmpl, ok := registry[code]; ok {
		return &Error{
			Code:     code,
			Category: tmpl.Category,
			Message:  tmpl.Message,
			Detail:   tmpl.Detail,
		}
	}
	return &Error{
		Code:     code,
		Category: CategoryRuntime,
		Message:  "unregistered error",
	}
}

// Wrap creates a registered error wrapping an underlying cause.
func Wrap(code string, err error) *Error {
	e := New(code)
	e.Wrapped = err
	return e
}

// Newf creates a registered error with a formatted message appended.
func Newf(code, format string, args ...any) *Error {
	e := New(code)
	e.Message = fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...))
	return e
}
