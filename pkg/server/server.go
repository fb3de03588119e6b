// Package server boots the Tramuntana process family: the web front end
// and the API service, both driven entirely by the finished configuration
// value. The server never mutates the configuration; it takes a deep
// snapshot at construction so not even the caller can.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/animalet/tramuntana/pkg/config"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 30 * time.Second

// Server runs the web and API services of one Tramuntana process.
type Server struct {
	cfg      *config.Config
	web      *http.Server
	api      *http.Server
	webAddr  net.Addr
	apiAddr  net.Addr
	shutdown chan os.Signal
}

// New creates a server from the finished configuration. The configuration
// is snapshotted so later mutations by the caller cannot leak in.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "refusing to start with invalid configuration")
	}

	return &Server{cfg: cfg.Snapshot()}, nil
}

// Start binds both listeners and begins serving. Bind failures are returned
// synchronously; serve errors after that point are fatal.
func (s *Server) Start() error {
	if s.cfg.Environment.IsProductionLike() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	store := cookie.NewStore([]byte(s.cfg.Session.Secret))
	store.Options(sessions.Options{
		Domain:   s.cfg.Session.CookieDomain,
		MaxAge:   int(s.cfg.Session.CookieMaxAge / time.Second),
		Secure:   s.cfg.Session.CookieSecure,
		HttpOnly: true,
		Path:     "/",
	})

	webListener, err := net.Listen("tcp", listenAddr(s.cfg.Web))
	if err != nil {
		return errors.Wrap(err, "failed to bind web listener")
	}
	apiListener, err := net.Listen("tcp", listenAddr(s.cfg.API))
	if err != nil {
		if closeErr := webListener.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close web listener")
		}
		return errors.Wrap(err, "failed to bind api listener")
	}

	s.web = &http.Server{Handler: s.webEngine(store)}
	s.api = &http.Server{Handler: s.apiEngine(store)}
	s.webAddr = webListener.Addr()
	s.apiAddr = apiListener.Addr()

	serve(s.web, webListener, "web")
	serve(s.api, apiListener, "api")
	return nil
}

// StartAndWaitForSignal starts both services and blocks until SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *Server) StartAndWaitForSignal() error {
	if err := s.Start(); err != nil {
		return err
	}

	s.shutdown = make(chan os.Signal, 1)
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	log.Info().Msgf("Shutdown signal received (%s)", <-s.shutdown)
	return s.Shutdown()
}

// Shutdown stops both services, letting active connections finish within
// the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var firstErr error
	for name, srv := range map[string]*http.Server{"web": s.web, "api": s.api} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "forced shutdown of %s service", name)
		}
	}

	if firstErr == nil {
		log.Info().Msg("Server exited gracefully")
	}
	return firstErr
}

// WebAddr returns the bound address of the web listener. It is available
// after a successful Start, which matters when the configured port is 0.
func (s *Server) WebAddr() string {
	if s.webAddr == nil {
		return ""
	}
	return s.webAddr.String()
}

// APIAddr returns the bound address of the API listener.
func (s *Server) APIAddr() string {
	if s.apiAddr == nil {
		return ""
	}
	return s.apiAddr.String()
}

func (s *Server) webEngine(store sessions.Store) *gin.Engine {
	engine := s.baseEngine(store, s.cfg.Web)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"environment": s.cfg.Environment,
			"version":     s.cfg.Version,
			// client reflects the resolved caller address so operators can
			// verify the proxy trust settings from the edge.
			"client": c.ClientIP(),
		})
	})

	return engine
}

func (s *Server) apiEngine(store sessions.Store) *gin.Engine {
	engine := s.baseEngine(store, s.cfg.API)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": s.cfg.Version})
	})

	return engine
}

func (s *Server) baseEngine(store sessions.Store, endpoint config.Endpoint) *gin.Engine {
	engine := gin.New()
	if err := engine.SetTrustedProxies(trustedProxies(endpoint)); err != nil {
		log.Warn().Err(err).Msg("Failed to configure trusted proxies")
	}
	engine.Use(
		gin.Logger(),
		gin.Recovery(),
		sessions.Sessions(s.cfg.Session.CookieName, store),
	)

	if s.cfg.Environment.IsProductionLike() {
		engine.Use(secure.New(secure.Config{
			ContentTypeNosniff: true,
			BrowserXssFilter:   true,
			FrameDeny:          true,
		}))
	}

	return engine
}

// trustedProxies translates the endpoint's trust-proxy flag into gin's
// trusted proxy list: every upstream when the endpoint sits behind a proxy,
// none otherwise so forwarding headers cannot spoof the client address.
func trustedProxies(e config.Endpoint) []string {
	if e.TrustProxy {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return nil
}

func listenAddr(e config.Endpoint) string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

func serve(srv *http.Server, listener net.Listener, name string) {
	log.Info().Str("service", name).Str("address", listener.Addr().String()).Msg("Starting listener")
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("service", name).Msg("Serve error")
		}
	}()
}
