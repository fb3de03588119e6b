package config

import (
	"time"

	"dario.cat/mergo"
	"github.com/pkg/errors"
)

// overlays holds the statically declared per-deployment override layers.
// Each layer is a partial Config: only the fields it sets are merged onto
// the base, field by field, and the compiler validates the shape of every
// overlay against the schema. Exactly one layer is active per process.
//
// Merge semantics: nested structs merge recursively; scalars and slices
// set by an overlay fully replace the base value, never combine with it.
var overlays = map[Environment]*Config{
	Development: {
		Mail: MailConfig{
			Transport: "log",
		},
		RateLimit: RateLimitConfig{
			Window: time.Minute,
			Max:    1000,
		},
	},
	Test: {
		Mail: MailConfig{
			Transport: "stub",
		},
		Scheduler: SchedulerConfig{
			PollInterval: time.Hour,
		},
		RateLimit: RateLimitConfig{
			Window: time.Minute,
			Max:    10000,
		},
	},
	Production: {
		Session: SessionConfig{
			CookieSecure: true,
		},
		Web: Endpoint{
			TrustProxy: true,
		},
		API: Endpoint{
			TrustProxy: true,
		},
		Templating: TemplatingConfig{
			CacheTemplates: true,
		},
	},
}

// ApplyOverlay merges the override layer for env onto cfg. The absence of
// a layer for env is not an error; the base passes through unchanged.
func ApplyOverlay(cfg *Config, env Environment) error {
	overlay, ok := overlays[env]
	if !ok {
		return nil
	}
	return MergeOverlay(cfg, overlay)
}

// MergeOverlay merges an arbitrary partial Config onto base. Struct fields
// merge recursively key by key; a scalar, slice, or map entry set by the
// overlay replaces the base value entirely.
func MergeOverlay(base *Config, overlay *Config) error {
	if err := mergo.Merge(base, overlay, mergo.WithOverride); err != nil {
		return errors.Wrap(err, "failed to merge deployment overlay")
	}
	return nil
}
