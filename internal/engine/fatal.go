package engine

import "fmt"

// FatalError is the engine's unrecoverable-error signal. The original
// program printed the message and exited the process; embedded engines
// raise it as a panic value instead, so the session layer can intercept
// it at the shim boundary and convert it into a recoverable failure.
//
// It must only be raised from inside an engine entry point; outside a
// protected region nothing will catch it.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return "engine: " + e.Message
}

// Fatalf aborts the current engine call with a FatalError. This is the
// embedded analog of the engine's fatal-error routine and never returns.
func Fatalf(format string, args ...any) {
	panic(&FatalError{Message: fmt.Sprintf(format, args...)})
}
