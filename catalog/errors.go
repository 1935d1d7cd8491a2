package catalog

import "errors"

var (
	// ErrInvalidCatalog is returned when no source row carries a non-empty label
	// or a source lacks the label column.
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")

	// ErrNotFound indicates the label is not present in the index.
	ErrNotFound = errors.New("catalog: label not found")
)
