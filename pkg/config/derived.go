package config

// Finalize performs the post-merge derived computations. It runs exactly
// once, after the deployment overlay is applied, and is the last mutation
// of the configuration: HasThirdPartyProviders becomes true iff at least
// one entry of the provider-enablement map is enabled.
func Finalize(cfg *Config) {
	cfg.HasThirdPartyProviders = false
	for _, enabled := range cfg.Auth.Providers {
		if enabled {
			cfg.HasThirdPartyProviders = true
			break
		}
	}
}

// RenderContext is the namespace handed to the templating engine for a
// render. It is built on demand from the finished configuration plus
// render-specific data instead of storing a back-reference inside the
// configuration tree, so the long-lived Config stays acyclic and any
// generic traversal over it terminates.
type RenderContext struct {
	// Version is the build version string, surfaced read-only.
	Version string

	// SiteTitle is the display title templates use by default.
	SiteTitle string

	// Config points at the finished top-level configuration itself. This
	// is an identity reference, not a copy: templates read the same value
	// every collaborator was handed.
	Config *Config

	// Data carries render-specific values.
	Data map[string]any
}

// RenderContext builds the templating namespace for one render. The
// returned context references c directly.
func (c *Config) RenderContext(data map[string]any) RenderContext {
	return RenderContext{
		Version:   c.Version,
		SiteTitle: c.Templating.SiteTitle,
		Config:    c,
		Data:      data,
	}
}
