package formula

import (
	"fmt"
	"strings"
)

// ErrorPrefix starts every failed result rendered as cell text.
const ErrorPrefix = "Error: "

type ErrorKind uint8

const (
	ErrUnexpectedEnd ErrorKind = iota + 1
	ErrMissingParen
	ErrUnexpectedToken
	ErrUnknownFunction
)

// Error is an evaluation failure. It never escapes Evaluate other than as
// Result.Err.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{kind, fmt.Sprintf(format, args...)}
}

// IsError reports whether rendered cell text is a failed evaluation.
func IsError(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

// ErrorText renders a failure message the way failed results are shown.
func ErrorText(message string) string {
	return ErrorPrefix + message
}
