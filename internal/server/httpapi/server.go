// Package httpapi serves the auth operations over HTTP with a JSON envelope
// and provides the access-credential gate for protected routes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
)

// AuthService is the part of services.AuthService the routes need.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*services.Result, error)
	Login(ctx context.Context, email, password string) (*services.Result, error)
	Renew(ctx context.Context, sessionToken string) (*services.Renewed, error)
	Logout(ctx context.Context, sessionToken string) error
	Me(ctx context.Context, accountID string) (*services.AccountView, error)
}

type Server struct {
	address  string
	svc      AuthService
	verifier TokenVerifier
	logger   logging.Logger
	metrics  *metrics.Registry
	limiter  *ipLimiter
}

// NewServer builds the HTTP server. loginRateLimit is the number of login
// and register attempts allowed per minute per client IP; 0 disables it.
func NewServer(address string, svc AuthService, v TokenVerifier, l logging.Logger, m *metrics.Registry, loginRateLimit int) *Server {
	return &Server{
		address:  address,
		svc:      svc,
		verifier: v,
		logger:   l.With("module", "http_server"),
		metrics:  m,
		limiter:  newIPLimiter(loginRateLimit),
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.limiter.wrap(s.register))
	mux.HandleFunc("POST /api/auth/login", s.limiter.wrap(s.login))
	mux.HandleFunc("POST /api/auth/refresh", s.refresh)
	mux.HandleFunc("POST /api/auth/logout", s.logout)
	mux.Handle("GET /api/auth/me", Authenticate(s.verifier, http.HandlerFunc(s.me)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, http.StatusOK, "ok", nil)
	})
	mux.Handle("GET /metrics", s.metrics.Handler())

	return WithRequestLogging(mux, s.logger, s.metrics)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
