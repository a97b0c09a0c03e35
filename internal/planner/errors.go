package planner

import "errors"

// User-facing failures of Generate. Their messages are shown verbatim.
var (
	ErrGeneration = errors.New("Failed to generate meal plan. Please try again.")
	ErrParse      = errors.New("Failed to parse meal plan data")
)

// Error reports a failed generation. Its message is always the message of
// Kind; the underlying cause stays reachable through errors.Is/As.
type Error struct {
	Kind  error
	Cause error
}

func (e *Error) Error() string { return e.Kind.Error() }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
