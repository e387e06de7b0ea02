package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a project identifier has no matching record
	ErrNotFound = errors.New("project not found")

	// ErrMalformedResponse is returned when an upstream body does not have the expected shape
	ErrMalformedResponse = errors.New("unexpected response format")

	// ErrUnreachable is returned when an upstream call fails or answers with a non-success status
	ErrUnreachable = errors.New("upstream unreachable")

	// ErrFetchFailed is returned when one file's content could not be retrieved
	ErrFetchFailed = errors.New("failed to fetch file")

	// ErrDecode is returned when a local file cannot be decoded as text
	ErrDecode = errors.New("failed to decode file")

	// ErrInvalidRequest is returned for a missing or invalid import request parameter
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMethodNotAllowed is returned when the import endpoint is called with the wrong method
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// UpstreamError describes a failed call to the autopilot service
type UpstreamError struct {
	URL        string
	StatusCode int   // 0 when the transport itself failed
	Kind       error // ErrUnreachable or ErrMalformedResponse
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.URL)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// FileError names the file that made an import fail
type FileError struct {
	Path string
	Kind error // ErrFetchFailed or ErrDecode
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v %q: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
