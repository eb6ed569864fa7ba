package common

import (
	"fmt"
	"runtime"
)

type DetailedError interface {
	Detail() string
	Fatal() bool
}

// Error carries the file and line where it was created plus a fatal
// flag. Workers use the flag to decide whether a failed task is worth
// requeueing: a fatal error (unknown submission, unparsable document)
// will fail every retry the same way.
type Error struct {
	Err     error
	File    string
	IsFatal bool
	Line    int
	Message string
}

func NewError(message string, err error, isFatal bool) *Error {
	_, file, line, _ := runtime.Caller(1)
	return &Error{
		Err:     err,
		File:    file,
		IsFatal: isFatal,
		Line:    line,
		Message: message,
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Fatal() bool {
	return e.IsFatal
}

// Detail returns the error message with its origin and the underlying
// error, for logs.
func (e *Error) Detail() string {
	prefix := ""
	if e.IsFatal {
		prefix = "FATAL: "
	}
	underlyingError := ""
	if e.Err != nil {
		underlyingError = fmt.Sprintf("(Underlying error: %s)", e.Err.Error())
	}
	return fmt.Sprintf("%s%s [%s:%d] %s",
		prefix, e.Message, e.File, e.Line, underlyingError)
}
