// Package auth wires the authentication collaborators to the assembled
// configuration: third-party identity providers via goth, and the local
// credential strategy's password policy.
package auth

import (
	"github.com/animalet/tramuntana/pkg/config"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
	"github.com/markbates/goth/providers/linkedin"
	"github.com/markbates/goth/providers/paypal"
	"github.com/markbates/goth/providers/twitterv2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Providers builds a goth provider for every entry of the enablement map
// that is switched on, using the strategy parameters assembled for it. An
// enabled provider with incomplete credentials is a configuration error.
func Providers(cfg *config.Config) ([]goth.Provider, error) {
	var providers []goth.Provider

	for _, name := range config.Providers {
		if !cfg.Auth.Providers[name] {
			continue
		}

		s, ok := cfg.Auth.Strategies[name]
		if !ok || s.ClientID == "" || s.ClientSecret == "" {
			return nil, errors.Errorf("provider %q is enabled but has no client credentials", name)
		}

		p, err := newProvider(name, s)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// Setup registers every enabled provider with goth. It is called once at
// startup, after the configuration is finished.
func Setup(cfg *config.Config) error {
	providers, err := Providers(cfg)
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		log.Info().Msg("No third-party identity providers enabled")
		return nil
	}

	goth.UseProviders(providers...)
	log.Info().Int("providers", len(providers)).Msg("Third-party identity providers registered")
	return nil
}

func newProvider(name string, s config.Strategy) (goth.Provider, error) {
	switch name {
	case "facebook":
		return facebook.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	case "twitter":
		return twitterv2.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	case "google":
		return google.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	case "linkedin":
		return linkedin.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	case "github":
		return github.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	case "paypal":
		return paypal.New(s.ClientID, s.ClientSecret, s.CallbackURL), nil
	default:
		return nil, errors.Errorf("unknown provider %q", name)
	}
}
