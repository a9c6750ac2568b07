package script

import "errors"

var (
	// ErrGeneric marks expected failures, such as a script returning nil and a reason.
	// The engine does not log them.
	ErrGeneric = errors.New("script failed")

	ErrMissingFunction = errors.New("function is not defined")
	ErrInvalidResult   = errors.New("invalid result")
	ErrInvalidTask     = errors.New("invalid task")
	ErrNoScript        = errors.New("no script")
)
