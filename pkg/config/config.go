// Package config assembles the immutable runtime configuration for the
// Tramuntana web and API services. The configuration is composed once at
// process startup by a strictly linear pipeline: declared environment
// variables are loaded and validated, placeholder references are expanded,
// raw values are coerced into typed values, the typed values plus static
// literals become the base configuration tree, the active deployment
// overlay is merged on top, and finally the derived fields are computed.
//
// The finished *Config is passed explicitly to every collaborator and is
// treated as read-only for the remainder of the process lifetime; there is
// no ambient global lookup.
package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/animalet/tramuntana/internal/snapshot"
	"github.com/animalet/tramuntana/pkg/database"
	"github.com/animalet/tramuntana/pkg/envfile"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Environment identifies the active deployment environment and selects
// which override layer is merged onto the base configuration.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

// IsProductionLike reports whether strict production policies (attempt
// ceilings, secure cookies) apply.
func (e Environment) IsProductionLike() bool {
	return e == Production
}

// IsDevelopmentLike reports whether development conveniences (password
// policy bypass) apply.
func (e Environment) IsDevelopmentLike() bool {
	return e == Development
}

type (
	// Config is the single runtime configuration value shared by the web
	// front end and the API service. It is built once by Load and never
	// mutated afterwards.
	Config struct {
		Environment Environment `yaml:"environment"`
		Version     string      `yaml:"version"`

		App           AppConfig              `yaml:"app"`
		Web           Endpoint               `yaml:"web"`
		API           Endpoint               `yaml:"api"`
		Session       SessionConfig          `yaml:"session"`
		Database      database.MongoDBConfig `yaml:"database"`
		Redis         database.RedisConfig   `yaml:"redis"`
		Mail          MailConfig             `yaml:"mail"`
		Storage       StorageConfig          `yaml:"storage"`
		Scheduler     SchedulerConfig        `yaml:"scheduler"`
		ErrorTracking ErrorTrackingConfig    `yaml:"error_tracking"`
		RateLimit     RateLimitConfig        `yaml:"rate_limit"`
		Hashing       HashingConfig          `yaml:"hashing"`
		Auth          AuthConfig             `yaml:"auth"`
		Templating    TemplatingConfig       `yaml:"templating"`

		// HasThirdPartyProviders is derived after the overlay merge: true
		// iff at least one provider flag is enabled.
		HasThirdPartyProviders bool `yaml:"has_third_party_providers"`
	}

	// AppConfig holds application identity values.
	AppConfig struct {
		Name        string   `yaml:"name"`
		Title       string   `yaml:"title"`
		AdminEmails []string `yaml:"admin_emails"`
	}

	// Endpoint describes one logical server of the process family.
	Endpoint struct {
		Protocol   string `yaml:"protocol"`
		Host       string `yaml:"host"`
		Port       int    `yaml:"port"`
		URL        string `yaml:"url"`
		TrustProxy bool   `yaml:"trust_proxy"`
	}

	// SessionConfig holds the cookie session settings shared by both
	// services.
	SessionConfig struct {
		Secret       string        `yaml:"secret"`
		CookieName   string        `yaml:"cookie_name"`
		CookieDomain string        `yaml:"cookie_domain"`
		CookieMaxAge time.Duration `yaml:"cookie_max_age"`
		CookieSecure bool          `yaml:"cookie_secure"`
	}

	// MailConfig holds outbound mail defaults. Transport selects the
	// delivery mechanism: "smtp", "log", or "stub".
	MailConfig struct {
		From      string `yaml:"from"`
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Transport string `yaml:"transport"`
	}

	// StorageConfig holds the object storage endpoint and local upload
	// path conventions.
	StorageConfig struct {
		Endpoint  string `yaml:"endpoint"`
		Bucket    string `yaml:"bucket"`
		UploadDir string `yaml:"upload_dir"`
	}

	// SchedulerConfig holds the job scheduler registration parameters.
	// WorkerID is derived from host name and process identifier so each
	// process registers under a unique identity.
	SchedulerConfig struct {
		WorkerID     string        `yaml:"worker_id"`
		PollInterval time.Duration `yaml:"poll_interval"`
	}

	// ErrorTrackingConfig holds the error reporting client settings.
	ErrorTrackingConfig struct {
		DSN     string `yaml:"dsn"`
		Enabled bool   `yaml:"enabled"`
	}

	// RateLimitConfig holds the request rate limiting parameters.
	RateLimitConfig struct {
		Window time.Duration `yaml:"window"`
		Max    int           `yaml:"max"`
	}

	// HashingConfig holds the password hashing policy parameters.
	HashingConfig struct {
		BcryptCost int `yaml:"bcrypt_cost"`
	}

	// TemplatingConfig holds the settings the rendering layer reads.
	// Filter capabilities are not part of the tree; they live in their own
	// registry (pkg/filter) keyed by name.
	TemplatingConfig struct {
		Dir            string `yaml:"dir"`
		SiteTitle      string `yaml:"site_title"`
		CacheTemplates bool   `yaml:"cache_templates"`
	}

	// AuthConfig holds the authentication configuration: the exhaustive
	// provider-enablement map, per-provider strategy parameters, and the
	// local credential strategy.
	AuthConfig struct {
		Providers  map[string]bool     `yaml:"providers"`
		Strategies map[string]Strategy `yaml:"strategies"`
		Local      LocalStrategy       `yaml:"local"`
	}

	// Strategy holds the parameters of one third-party identity or
	// payment provider.
	Strategy struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		CallbackURL  string `yaml:"callback_url"`
	}

	// LocalStrategy holds the local credential strategy parameters.
	// MaxAttempts is a small fixed ceiling in production-like
	// environments and effectively unlimited elsewhere.
	LocalStrategy struct {
		UsernameField      string         `yaml:"username_field"`
		PasswordField      string         `yaml:"password_field"`
		LowercaseUsernames bool           `yaml:"lowercase_usernames"`
		MaxAttempts        int            `yaml:"max_attempts"`
		Password           PasswordPolicy `yaml:"password"`
	}

	// PasswordPolicy holds the password strength requirements evaluated
	// by auth.ValidatePassword. When Enforced is false the validator
	// accepts everything; development environments run with enforcement
	// off.
	PasswordPolicy struct {
		Enforced         bool `yaml:"enforced"`
		MinLength        int  `yaml:"min_length"`
		MaxLength        int  `yaml:"max_length"`
		RequireMixedCase bool `yaml:"require_mixed_case"`
		RequireNumber    bool `yaml:"require_number"`
		RequireSymbol    bool `yaml:"require_symbol"`
	}
)

// Options parameterizes one assembly run.
type Options struct {
	// Environment selects the deployment override layer and the
	// environment-dependent policies.
	Environment Environment

	// Version is the build version string surfaced read-only to the
	// templating namespace.
	Version string

	// Silent suppresses informational pipeline logging. Validation
	// failures are never suppressed.
	Silent bool
}

// Load runs the whole composition pipeline against the definition files in
// envDir and returns the finished configuration. The base file is
// <envDir>/base.env; <envDir>/<environment>.env is merged on top when
// present. Execution is strictly sequential and happens once per process,
// before any service begins listening.
func Load(envDir string, opts Options) (*Config, error) {
	if opts.Environment == "" {
		opts.Environment = Development
	}

	basePath := filepath.Join(envDir, "base.env")
	overridePath := filepath.Join(envDir, string(opts.Environment)+".env")

	raw, err := envfile.Load(basePath, overridePath, DeclaredVariables, opts.Silent)
	if err != nil {
		return nil, err
	}

	expanded, err := envfile.Expand(raw)
	if err != nil {
		return nil, err
	}

	cfg, err := Assemble(envfile.Coerce(expanded), opts)
	if err != nil {
		return nil, err
	}

	if err := ApplyOverlay(cfg, opts.Environment); err != nil {
		return nil, err
	}

	Finalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "assembled configuration is invalid")
	}

	if !opts.Silent {
		log.Info().
			Str("environment", string(opts.Environment)).
			Str("version", opts.Version).
			Bool("third_party_providers", cfg.HasThirdPartyProviders).
			Msg("Configuration assembled")
	}

	return cfg, nil
}

// Validate checks the assembled configuration for values no deployment may
// boot without.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session secret must be set and non-empty")
	}
	for _, e := range []Endpoint{c.Web, c.API} {
		if e.Port < 0 || e.Port > 65535 {
			return errors.Errorf("invalid port %d", e.Port)
		}
		if _, err := url.Parse(e.URL); err != nil {
			return errors.Wrapf(err, "invalid endpoint url %q", e.URL)
		}
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if c.Hashing.BcryptCost < 4 {
		return errors.Errorf("bcrypt cost %d is too low", c.Hashing.BcryptCost)
	}
	return nil
}

// Snapshot returns an independent deep copy of the configuration for
// collaborators that must not be able to mutate the shared value.
func (c *Config) Snapshot() *Config {
	return snapshot.MustCopy(c)
}

// YAML renders the effective configuration for inspection, for example by
// the -dump flag of the tramuntana binary.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to render configuration as YAML")
	}
	return string(out), nil
}
