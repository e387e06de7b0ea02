package fs

import "errors"

var (
	// ErrInvalidPath is returned when a path escapes the imported root
	ErrInvalidPath = errors.New("invalid file path")

	// ErrExcludedPath is returned when a path matches the exclusion filter
	ErrExcludedPath = errors.New("path is excluded")

	// ErrNotDirectory is returned when operation requires a directory
	ErrNotDirectory = errors.New("not a directory")
)
