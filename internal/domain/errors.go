package domain

import "errors"

var (
	// ErrNotFound is returned by stores and caches when a record is absent.
	ErrNotFound = errors.New("not found")
	// ErrFetchFailed wraps fatal upstream fetch errors that abort a run.
	ErrFetchFailed = errors.New("venue fetch failed")
)
