package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCatalog is returned when matching against an index with no entries.
	ErrEmptyCatalog = errors.New("matching: catalog is empty")

	// ErrNoMatch is the sentinel matched by every *NoMatchError.
	ErrNoMatch = errors.New("matching: no match")
)

// NoMatchError reports a query that matched no label and whose best
// similarity stayed below the threshold.
type NoMatchError struct {
	Query     string
	BestScore float64
	Threshold float64
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("matching: no match for %q (best score %.4f < %.4f)", e.Query, e.BestScore, e.Threshold)
}

// Is reports ErrNoMatch equivalence.
func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}
