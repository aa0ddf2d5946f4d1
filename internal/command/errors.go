package command

import (
	"errors"
	"fmt"
)

// ErrPanic is matched by every FaultError.
var ErrPanic = errors.New("command panicked")

// FaultError records a panic raised by a command body.
type FaultError struct {
	// Value is the recovered panic value.
	Value any

	// Stack is the goroutine stack at the point of recovery.
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("command panicked: %v", e.Value)
}

// Is reports ErrPanic as a match.
func (e *FaultError) Is(target error) bool {
	return target == ErrPanic
}

// Unwrap returns the panic value when it is an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsFault reports whether err carries a command fault.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}
