package dirstat

import (
	"errors"
	"fmt"
)

// FilesystemAccessError reports a path that could not be listed or stat'ed.
type FilesystemAccessError struct {
	// Path is the offending path.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *FilesystemAccessError) Error() string {
	return fmt.Sprintf("accessing %q: %v", e.Path, e.Err)
}

func (e *FilesystemAccessError) Unwrap() error {
	return e.Err
}

// accessError wraps err for path unless it already carries a more specific path.
func accessError(path string, err error) error {
	var accessErr *FilesystemAccessError
	if errors.As(err, &accessErr) {
		return err
	}

	return &FilesystemAccessError{Path: path, Err: err}
}
