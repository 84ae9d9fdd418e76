package boot

import (
	"errors"
	"fmt"
)

// ResolveError is returned when the entry point's own location can't be determined.
type ResolveError struct {
	Entry string
	Err   error
}

var _ error = (*ResolveError)(nil)

func (e *ResolveError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("Could not determine the location of the entry point: %v", e.Err)
	}
	return fmt.Sprintf("Could not determine the location of %s: %v", e.Entry, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// FilesystemError is returned when the output directory can't be created.
type FilesystemError struct {
	Path string
	Err  error
}

var _ error = (*FilesystemError)(nil)

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("Failed to create %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ToolError is returned when the build configuration tool reports a failure.
type ToolError struct {
	Command string
	Status  int
	Err     error
}

var _ error = (*ToolError)(nil)

func (e *ToolError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed with exit status %d", e.Command, e.Status)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ExitCode maps the outcome of a run to a process exit status. Tool failures keep the tool's own
// status, everything else is reported as 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Status > 0 {
		return toolErr.Status
	}

	return 1
}
