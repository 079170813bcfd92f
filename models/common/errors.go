package common

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// DetailedError is implemented by errors that carry more context
// than fits in Error(), such as this package's Error and
// network.HttpError.
type DetailedError interface {
	Detail() string
}

// Error describes a failed step in importing or saving a profile.
//
// Fatal errors won't go away on retry: the document is not a profile,
// or the profile it describes is invalid. The import worker finishes
// NSQ messages that fail with fatal errors instead of requeueing them.
type Error struct {
	Err      error
	IsFatal  bool
	Location string
	Message  string
}

// NewError returns an Error whose Location is the file and line that
// called NewError.
func NewError(message string, err error, isFatal bool) *Error {
	location := "unknown"
	if _, file, line, ok := runtime.Caller(1); ok {
		location = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return &Error{
		Err:      err,
		IsFatal:  isFatal,
		Location: location,
		Message:  message,
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Detail returns the message with its severity and location, for
// log files.
func (e *Error) Detail() string {
	severity := "transient"
	if e.IsFatal {
		severity = "fatal"
	}
	return fmt.Sprintf("[%s at %s] %s", severity, e.Location, e.Error())
}
