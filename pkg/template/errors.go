package template

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Sentinel errors returned by template operations.
var (
	// ErrInvalidGeometry is returned when a page width or height is not positive.
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// ErrInvalidOrientation is returned for orientations other than landscape and portrait.
	ErrInvalidOrientation = errors.New("invalid orientation")

	// ErrNotFound is returned when a named region or text field does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when adding an element whose name is already taken in its pool.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnsupportedMutation is returned by every write through the lookup view.
	ErrUnsupportedMutation = errors.New("template does not support map-style mutation")
)

// maxSuggestDistance bounds the edit distance for "did you mean" hints.
const maxSuggestDistance = 2

// NotFoundError reports a missing member of a collection.
type NotFoundError struct {
	Pool       string // "region" or "text field"
	Name       string // Requested name
	Suggestion string // Closest existing name, empty if nothing is close
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s %q not found (did you mean %q?)", e.Pool, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s %q not found", e.Pool, e.Name)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// suggest returns the candidate closest to name, or "" if none is within
// maxSuggestDistance. Ties resolve to the lexically smallest candidate.
func suggest(name string, candidates []string) string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range sorted {
		d := levenshtein.ComputeDistance(name, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
