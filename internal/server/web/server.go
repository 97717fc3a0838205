// Package web serves the HTTP/JSON API: the /face-data routes, the
// /passwords vault, account signup and login, health and Prometheus
// metrics.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lockwise/internal/biometrics"
	"github.com/dmitrijs2005/lockwise/internal/logging"
	"github.com/dmitrijs2005/lockwise/internal/server/metrics"
	"github.com/dmitrijs2005/lockwise/internal/server/models"
	"github.com/dmitrijs2005/lockwise/internal/server/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type userSvc interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	UserIDFromAccessToken(token string) (string, error)
}

type enrollmentSvc interface {
	Enroll(ctx context.Context, userID string, descriptor biometrics.Descriptor) (*models.Template, error)
	HasEnrolled(ctx context.Context, userID string) (bool, error)
	Reset(ctx context.Context, userID string) error
}

type verificationSvc interface {
	Verify(ctx context.Context, userID string, sample biometrics.Descriptor) (*services.VerificationResult, error)
}

type passwordSvc interface {
	Create(ctx context.Context, userID string, c models.Credential) (*models.Credential, error)
	List(ctx context.Context, userID string) ([]models.Credential, error)
	Update(ctx context.Context, userID, id string, patch services.CredentialPatch) (*models.Credential, error)
	Delete(ctx context.Context, userID, id string) error
}

// Services groups what the HTTP handlers call into.
type Services struct {
	Users      userSvc
	Enrollment enrollmentSvc
	Verifier   verificationSvc
	Passwords  passwordSvc
}

type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	services   Services
	logger     logging.Logger
	metrics    *metrics.Recorder
	// tokenTTL bounds the lifetime of the token cookie.
	tokenTTL time.Duration
}

func NewServer(addr string, requestTimeout, tokenTTL time.Duration, svc Services, l logging.Logger, m *metrics.Recorder) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		services: svc,
		logger:   l.With("module", "http_server"),
		metrics:  m,
		tokenTTL: tokenTTL,
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := s.httpServer.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
