package common

import "fmt"

// IOError describes a failed filesystem operation on a stored file.
// Offset is -1 when the operation is not positional.
type IOError struct {
	Op     string
	Path   string
	Offset int64
	Err    error
}

func NewIOError(op, path string, offset int64, err error) *IOError {
	return &IOError{Op: op, Path: path, Offset: offset, Err: err}
}

func (e *IOError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s %s at offset %d: %v", e.Op, e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
