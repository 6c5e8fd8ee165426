package tools

import "errors"

// Registry and dispatch errors.
var (
	// ErrNameEmpty is returned when a descriptor has no name.
	ErrNameEmpty = errors.New("tool name cannot be empty")

	// ErrExecuteNil is returned when a descriptor has no execute function.
	ErrExecuteNil = errors.New("tool execute function cannot be nil")

	// ErrDuplicateName is returned when registering a name twice.
	ErrDuplicateName = errors.New("tool already registered")

	// ErrMissingRequiredArg is returned when a required argument is absent.
	ErrMissingRequiredArg = errors.New("missing required argument")

	// ErrConfirmationRequired is returned when a mutating tool is invoked
	// without an explicit confirmation flag.
	ErrConfirmationRequired = errors.New("mutating tool requires confirmation")
)
