package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-client/internal/config"
	"github.com/SAP-F-2025/exam-client/internal/utils"
	"github.com/SAP-F-2025/exam-client/internal/validator"
)

const shutdownTimeout = 5 * time.Second

// Server is a local backend speaking the exam REST contract.
type Server struct {
	Store   *Store
	Auth    *Authenticator
	Handler http.Handler

	addr   string
	logger utils.Logger
}

// New wires a server with one registered user taken from cfg.
func New(cfg config.DevServerConfig, logger utils.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("dev server JWT secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}

	store := NewStore()
	auth := NewAuthenticator(store, cfg.JWTSecret, cfg.TokenTTL, logger)
	if cfg.Username != "" {
		if _, err := auth.Register(cfg.Username, cfg.Password); err != nil {
			return nil, fmt.Errorf("register %s: %w", cfg.Username, err)
		}
	}

	hm := NewHandlerManager(store, auth, validator.New(), logger)
	return &Server{
		Store:   store,
		Auth:    auth,
		Handler: NewRouter(hm, logger, cfg.GetCORSOrigins()),
		addr:    cfg.Addr,
		logger:  logger,
	}, nil
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dev server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dev server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
