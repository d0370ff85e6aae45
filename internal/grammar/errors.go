package grammar

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStackUnderflow means a table popped the root machine.
	ErrStackUnderflow = errors.New("grammar stack underflow: pop on root machine")
	// ErrMachineDepth means push and pop outcomes never settled on a state.
	ErrMachineDepth = errors.New("grammar machine stack too deep")
)

// SyntaxError reports an event the grammar does not allow where it appeared.
type SyntaxError struct {
	Machine  string
	State    string
	Event    string
	Expected []string
	URI      string
	Line     int
}

func (e *SyntaxError) Error() string {
	where := e.URI
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.URI, e.Line)
	}
	return fmt.Sprintf("parse error at %s: found %s when expecting one of: %s (current state: %s)",
		where, e.Event, strings.Join(e.Expected, ", "), e.State)
}

// UnknownMachineError is returned when no transition table exists for a
// machine name.
type UnknownMachineError struct {
	Name string
}

func (e *UnknownMachineError) Error() string {
	return fmt.Sprintf("machine not supported: %q", e.Name)
}
