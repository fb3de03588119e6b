// Package envfile loads and validates the declared environment variables
// that feed the Tramuntana configuration pipeline. It reads key=value
// definition files, enforces an exact-match schema, expands placeholder
// references between sibling keys, and coerces raw strings into their most
// specific primitive type.
package envfile

import (
	"fmt"
	"sort"
	"strings"
)

// RawSet maps a declared variable name to its raw string value as loaded
// from the definition files, before coercion.
type RawSet map[string]string

// TypedSet maps a declared variable name to its coerced value. Values are
// one of: bool, int, float64, []string, or string.
type TypedSet map[string]any

// Schema is the set of variable names a deployment must define. Loading
// fails unless the loaded key set matches the schema exactly.
type Schema []string

// Contains reports whether name is part of the schema.
func (s Schema) Contains(name string) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// MissingVariableError reports every schema variable absent from the loaded
// definition files. It is fatal at startup.
type MissingVariableError struct {
	Names []string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing environment variables: %s", strings.Join(e.Names, ", "))
}

// UnexpectedVariableError reports every loaded variable that is not part of
// the declared schema. It is fatal at startup.
type UnexpectedVariableError struct {
	Names []string
}

func (e *UnexpectedVariableError) Error() string {
	return fmt.Sprintf("unexpected environment variables not present in schema: %s", strings.Join(e.Names, ", "))
}

// CircularTemplateError reports placeholder references that never reach a
// fixed point, i.e. keys whose values still contain placeholders after the
// expansion iteration cap.
type CircularTemplateError struct {
	Keys []string
}

func (e *CircularTemplateError) Error() string {
	return fmt.Sprintf("circular placeholder references in environment variables: %s", strings.Join(e.Keys, ", "))
}

// sortedKeys returns the keys of m in lexical order so error messages and
// log output are deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
