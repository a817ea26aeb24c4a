package interp

import "fmt"

// EvalError is a recoverable evaluation-time condition. It carries the
// call chain captured at the moment it was raised.
type EvalError struct {
	Message  string
	Location string
	Chain    []Frame
}

func (e *EvalError) Error() string {
	if e.Location != "" {
		return e.Location + ": " + e.Message
	}
	return e.Message
}

// Interrupt is the user-interrupt control signal. It is not an error
// condition and never enters the debugger.
type Interrupt struct{}

func (*Interrupt) Error() string { return "evaluation interrupted" }

// fail raises an EvalError with a snapshot of the current call chain.
func (in *Interp) fail(format string, args ...interface{}) error {
	chain := make([]Frame, len(in.stack))
	copy(chain, in.stack)
	return &EvalError{Message: fmt.Sprintf(format, args...), Chain: chain}
}
