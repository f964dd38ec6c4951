package catalog

import "errors"

var (
	// ErrDatasetUnavailable means the source dataset could not be read at all.
	ErrDatasetUnavailable = errors.New("catalog dataset unavailable")
	// ErrNotFound means no destination exists with the requested id.
	ErrNotFound = errors.New("destination not found")
	// ErrNoneAvailable means the filtered set is empty.
	ErrNoneAvailable = errors.New("no destinations match the filter")
)
