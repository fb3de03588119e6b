package envfile

import (
	"os"
	"strings"
)

// maxExpansionPasses bounds the fixed-point loop in Expand. Legitimate
// definition files settle in one or two passes; anything still holding a
// placeholder after this many passes is a reference cycle.
const maxExpansionPasses = 8

// Expand resolves ${KEY} placeholder references inside raw values against
// the other keys of the same set. References are resolved against a
// snapshot of the set taken at the start of each pass, and passes repeat
// until the set reaches a fixed point or the iteration cap.
//
// A reference to a key that does not exist in the set expands to the empty
// string. Keys that still hold a placeholder once the loop stops (self
// references, mutual references, or chains deeper than the cap) are
// reported in a *CircularTemplateError.
func Expand(raw RawSet) (RawSet, error) {
	expanded := make(RawSet, len(raw))
	for k, v := range raw {
		expanded[k] = v
	}

	for pass := 0; pass < maxExpansionPasses; pass++ {
		snapshot := make(RawSet, len(expanded))
		for k, v := range expanded {
			snapshot[k] = v
		}

		changed := false
		for k, v := range expanded {
			next := os.Expand(v, func(ref string) string {
				return snapshot[ref]
			})
			if next != v {
				expanded[k] = next
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	var unresolved []string
	for _, k := range sortedKeys(expanded) {
		if strings.Contains(expanded[k], "${") {
			unresolved = append(unresolved, k)
		}
	}
	if len(unresolved) > 0 {
		return nil, &CircularTemplateError{Keys: unresolved}
	}

	return expanded, nil
}
