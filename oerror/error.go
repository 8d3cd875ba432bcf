package oerror

import "fmt"

// RewindError is the error type returned by every package of the module.
type RewindError struct {
	Err string
}

// New creates a new RewindError from the given format and arguments.
func New(format string, args ...any) *RewindError {
	if len(args) == 0 {
		return &RewindError{Err: format}
	}
	return &RewindError{Err: fmt.Sprintf(format, args...)}
}

func (e *RewindError) Error() string {
	return e.Err
}
