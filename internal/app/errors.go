package app

import (
	"errors"
	"fmt"
)

// Program errors.
var (
	// ErrAlreadyRunning indicates Run was already called on the program.
	ErrAlreadyRunning = errors.New("program already running")

	// ErrKilled indicates the program stopped because its context ended.
	ErrKilled = errors.New("program killed")

	// ErrUnknownFault is the cause reported for an ErrorMsg without an error.
	ErrUnknownFault = errors.New("error message without cause")
)

// TerminalError represents a failure of the terminal resource.
type TerminalError struct {
	Op  string // Operation name (e.g., "start", "size", "restore")
	Err error  // Underlying error
}

func (e *TerminalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *TerminalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PanicError wraps a panic raised by the update or view function.
// The Error() method includes only the panic value; the stack is kept in
// the Stack field.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// InitError represents an error while constructing a program.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
