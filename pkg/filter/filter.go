// Package filter provides the template filter capabilities exposed to the
// rendering layer. Filters are narrow string transformers registered in a
// registry by name, independently of the static configuration tree, so the
// templating engine can look them up without the configuration carrying
// callable values.
//
// Filters never fail: any internal error is converted into the best
// available string so rendering cannot break solely because a filter broke.
package filter

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"
)

// Filter is a named string-transforming capability. Apply must always
// return a usable string; implementations convert their own failures into
// values instead of surfacing them.
type Filter interface {
	// Name returns the identifier the templating engine uses to look the
	// filter up.
	Name() string

	// Apply transforms input. The context bounds any work the filter
	// performs outside the process (timeouts, cancellation).
	Apply(ctx context.Context, input string) string
}

// Registry associates filter names with implementations. The zero value is
// not usable; create one with NewRegistry.
type Registry struct {
	filters map[string]Filter
}

// NewRegistry returns an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{filters: make(map[string]Filter)}
}

// Register adds a filter under its own name. Registering over an existing
// name replaces it and logs a warning, matching how the configuration
// resolvers behave.
func (r *Registry) Register(f Filter) {
	if _, exists := r.filters[f.Name()]; exists {
		log.Warn().Str("filter", f.Name()).Msg("Overriding existing template filter")
	}
	r.filters[f.Name()] = f
}

// Lookup returns the filter registered under name, or nil if none exists.
func (r *Registry) Lookup(name string) Filter {
	return r.filters[name]
}

// Names returns all registered filter names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
