// Package snapshot creates deep copies of configuration structures so the
// assembled runtime configuration can be handed to collaborators without
// exposing shared mutable state.
package snapshot

import (
	"github.com/pkg/errors"
	"github.com/tiendc/go-deepcopy"
)

// Copy returns a deep copy of src. Slices, maps, and nested pointers are
// recursively duplicated so mutating the copy never touches the original.
//
// If src is nil, returns (nil, nil).
func Copy[T any](src *T) (*T, error) {
	if src == nil {
		return nil, nil
	}

	var dst T
	if err := deepcopy.Copy(&dst, src); err != nil {
		return nil, errors.Wrapf(err, "failed to deep copy type %T", src)
	}

	return &dst, nil
}

// MustCopy is Copy for constructor boundaries, where a copy failure means a
// structural programming error rather than a runtime condition. It panics
// on error and returns nil for nil input.
func MustCopy[T any](src *T) *T {
	if src == nil {
		return nil
	}

	result, err := Copy(src)
	if err != nil {
		panic("failed to create immutable snapshot: " + err.Error())
	}

	return result
}
