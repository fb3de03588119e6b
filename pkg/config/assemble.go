package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/animalet/tramuntana/pkg/database"
	"github.com/animalet/tramuntana/pkg/envfile"
	"github.com/pkg/errors"
)

// DeclaredVariables is the binding schema for the environment definition
// files. Loading fails unless the merged base plus deployment set matches
// this list exactly, no subset and no superset.
var DeclaredVariables = envfile.Schema{
	"WEB_PROTOCOL",
	"WEB_HOST",
	"WEB_PORT",
	"WEB_PUBLIC_URL",
	"API_PROTOCOL",
	"API_HOST",
	"API_PORT",
	"API_PUBLIC_URL",
	"SESSION_SECRET",
	"COOKIE_DOMAIN",
	"MONGODB_URI",
	"MONGODB_DATABASE",
	"REDIS_ADDRESS",
	"MAIL_FROM",
	"MAIL_HOST",
	"MAIL_PORT",
	"STORAGE_ENDPOINT",
	"STORAGE_BUCKET",
	"ERROR_TRACKING_DSN",
	"ADMIN_EMAILS",
	"AUTH_FACEBOOK",
	"AUTH_TWITTER",
	"AUTH_GOOGLE",
	"AUTH_LINKEDIN",
	"AUTH_GITHUB",
	"AUTH_PAYPAL",
	"FACEBOOK_CLIENT_ID",
	"FACEBOOK_CLIENT_SECRET",
	"TWITTER_CLIENT_ID",
	"TWITTER_CLIENT_SECRET",
	"GOOGLE_CLIENT_ID",
	"GOOGLE_CLIENT_SECRET",
	"LINKEDIN_CLIENT_ID",
	"LINKEDIN_CLIENT_SECRET",
	"GITHUB_CLIENT_ID",
	"GITHUB_CLIENT_SECRET",
	"PAYPAL_CLIENT_ID",
	"PAYPAL_CLIENT_SECRET",
}

// Providers is the exhaustive list of supported third-party identity and
// payment providers. The enablement map always carries one entry per name.
var Providers = []string{"facebook", "twitter", "google", "linkedin", "github", "paypal"}

// Static literals of the base configuration. Deployment overlays may
// replace any of them.
const (
	appName          = "tramuntana"
	appTitle         = "Tramuntana"
	cookieName       = "tramuntana.sid"
	cookieMaxAge     = 14 * 24 * time.Hour
	uploadDir        = "public/uploads"
	templateDir      = "templates"
	schedulerPoll    = 15 * time.Second
	rateLimitWindow  = 15 * time.Minute
	rateLimitMax     = 100
	bcryptCost       = 10
	redisMaxIdle     = 8
	redisIdleTimeout = 240 * time.Second

	// maxSignInAttempts applies in production-like environments only;
	// everywhere else the ceiling is effectively unlimited.
	maxSignInAttempts = 5
)

// Assemble maps the typed environment onto the canonical configuration
// tree, combining it with the static literals above and the values
// computed from the process identity. It produces the base document the
// deployment overlay is merged onto.
func Assemble(env envfile.TypedSet, opts Options) (*Config, error) {
	r := &envReader{env: env}

	cfg := &Config{
		Environment: opts.Environment,
		Version:     opts.Version,
		App: AppConfig{
			Name:        appName,
			Title:       appTitle,
			AdminEmails: r.list("ADMIN_EMAILS"),
		},
		Web: Endpoint{
			Protocol: r.str("WEB_PROTOCOL"),
			Host:     r.str("WEB_HOST"),
			Port:     r.num("WEB_PORT"),
			URL:      r.str("WEB_PUBLIC_URL"),
		},
		API: Endpoint{
			Protocol: r.str("API_PROTOCOL"),
			Host:     r.str("API_HOST"),
			Port:     r.num("API_PORT"),
			URL:      r.str("API_PUBLIC_URL"),
		},
		Session: SessionConfig{
			Secret:       r.str("SESSION_SECRET"),
			CookieName:   cookieName,
			CookieDomain: r.str("COOKIE_DOMAIN"),
			CookieMaxAge: cookieMaxAge,
		},
		Database: databaseConfig(r),
		Redis:    redisConfig(r),
		Mail: MailConfig{
			From:      r.str("MAIL_FROM"),
			Host:      r.str("MAIL_HOST"),
			Port:      r.num("MAIL_PORT"),
			Transport: "smtp",
		},
		Storage: StorageConfig{
			Endpoint:  r.str("STORAGE_ENDPOINT"),
			Bucket:    r.str("STORAGE_BUCKET"),
			UploadDir: uploadDir,
		},
		Scheduler: SchedulerConfig{
			WorkerID:     workerIdentity(),
			PollInterval: schedulerPoll,
		},
		ErrorTracking: errorTrackingConfig(r),
		RateLimit: RateLimitConfig{
			Window: rateLimitWindow,
			Max:    rateLimitMax,
		},
		Hashing: HashingConfig{
			BcryptCost: bcryptCost,
		},
		Templating: TemplatingConfig{
			Dir:       templateDir,
			SiteTitle: appTitle,
		},
	}

	cfg.Auth = authConfig(r, cfg.Web.URL, opts.Environment)

	if r.err != nil {
		return nil, errors.Wrap(r.err, "failed to assemble configuration")
	}

	return cfg, nil
}

func databaseConfig(r *envReader) database.MongoDBConfig {
	return database.MongoDBConfig{
		URI:      r.str("MONGODB_URI"),
		Database: r.str("MONGODB_DATABASE"),
	}
}

func redisConfig(r *envReader) database.RedisConfig {
	return database.RedisConfig{
		Address:     r.str("REDIS_ADDRESS"),
		MaxIdle:     redisMaxIdle,
		IdleTimeout: redisIdleTimeout,
	}
}

func errorTrackingConfig(r *envReader) ErrorTrackingConfig {
	dsn := r.str("ERROR_TRACKING_DSN")
	return ErrorTrackingConfig{
		DSN:     dsn,
		Enabled: dsn != "",
	}
}

// authConfig builds the provider-enablement map, the per-provider strategy
// parameters, and the local credential strategy.
func authConfig(r *envReader, webURL string, env Environment) AuthConfig {
	providers := make(map[string]bool, len(Providers))
	strategies := make(map[string]Strategy, len(Providers))
	for _, name := range Providers {
		providers[name] = r.flag("AUTH_" + envKey(name))
		strategies[name] = Strategy{
			ClientID:     r.str(envKey(name) + "_CLIENT_ID"),
			ClientSecret: r.str(envKey(name) + "_CLIENT_SECRET"),
			CallbackURL:  fmt.Sprintf("%s/auth/%s/callback", webURL, name),
		}
	}

	maxAttempts := math.MaxInt32
	if env.IsProductionLike() {
		maxAttempts = maxSignInAttempts
	}

	return AuthConfig{
		Providers:  providers,
		Strategies: strategies,
		Local: LocalStrategy{
			UsernameField:      "email",
			PasswordField:      "password",
			LowercaseUsernames: true,
			MaxAttempts:        maxAttempts,
			Password: PasswordPolicy{
				Enforced:         !env.IsDevelopmentLike(),
				MinLength:        10,
				MaxLength:        128,
				RequireMixedCase: true,
				RequireNumber:    true,
				RequireSymbol:    true,
			},
		},
	}
}

// workerIdentity derives the job-scheduler registration identity from the
// host name and the process identifier.
func workerIdentity() string {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

// envKey maps a provider name to its environment variable stem.
func envKey(provider string) string {
	stem := make([]byte, len(provider))
	for i := 0; i < len(provider); i++ {
		c := provider[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		stem[i] = c
	}
	return string(stem)
}

// envReader reads typed environment values, recording the first type
// mismatch instead of failing on every call site.
type envReader struct {
	env envfile.TypedSet
	err error
}

func (r *envReader) str(key string) string {
	switch v := r.env[key].(type) {
	case string:
		return v
	default:
		r.fail(key, "string", v)
		return ""
	}
}

func (r *envReader) num(key string) int {
	switch v := r.env[key].(type) {
	case int:
		return v
	default:
		r.fail(key, "number", v)
		return 0
	}
}

func (r *envReader) flag(key string) bool {
	switch v := r.env[key].(type) {
	case bool:
		return v
	default:
		r.fail(key, "boolean", v)
		return false
	}
}

// list accepts both a coerced []string and a single plain string, since a
// one-element list has no comma to coerce on.
func (r *envReader) list(key string) []string {
	switch v := r.env[key].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		r.fail(key, "list", v)
		return nil
	}
}

func (r *envReader) fail(key, want string, got any) {
	if r.err == nil {
		r.err = errors.Errorf("variable %s: expected %s, got %T (%v)", key, want, got, got)
	}
}
