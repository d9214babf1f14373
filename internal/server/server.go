// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and routes.
// Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates: config + logger + mailer → passed to Server
// Server.New() creates: sqlite.DB → TokenService → AuthService/NoteService → handlers
//
// This is the "composition root" pattern — all dependencies are wired
// in one place (New/setupRoutes), rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/notewave/internal/auth"
	"github.com/sakif/notewave/internal/handler"
	"github.com/sakif/notewave/internal/mail"
	"github.com/sakif/notewave/internal/middleware"
	sqliteRepo "github.com/sakif/notewave/internal/repository/sqlite"
	"github.com/sakif/notewave/internal/service"
)

// How many OTP requests a single IP may make per window. Each request sends
// an email, so the ceiling is deliberately low.
const (
	authRateLimit  = 5
	authRateWindow = time.Minute
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy to
// add new options without changing function signatures, and to load everything
// from env vars in one place (main.go).
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection (db). When the server shuts down,
// we must close it to flush the WAL and release the file lock — handled in
// Start() during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a new Server with the given config and mailer.
//
// The mailer is passed in rather than built here because main.go decides
// which implementation to use: a real SMTP mailer when configured, or the
// log-only fallback for local development.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` to avoid confusion with the
// sqlite driver package.
func New(cfg Config, logger *slog.Logger, mailer mail.Mailer) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(mailer); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /api/auth/request-otp     → sign-up: register + email a code
// POST   /api/auth/request-otp-in  → sign-in: email a code to an existing account
// POST   /api/auth/verify-otp      → exchange code for a session token
// GET    /api/me                   → authenticated identity        [protected]
// GET    /api/notes                → list the caller's notes       [protected]
// POST   /api/notes                → create a note                 [protected]
// DELETE /api/notes/{id}           → delete one of caller's notes  [protected]
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added. Our order:
// 1. RequestID — assigns unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers (the rate limiter
//    keys on it, so it must run first)
// 3. Recoverer — catches panics and returns 500 instead of crashing
// 4. Logger — logs each request with timing info
//
// The auth endpoints additionally sit behind the per-IP rate limiter; the
// protected endpoints sit behind RequireAuth, which validates the bearer
// token and puts the identity into the request context.
func (s *Server) setupRoutes(mailer mail.Mailer) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// DEPENDENCY CHAIN:
	//   s.db.Users()/Notes() implement the repository interfaces
	//   Services receive the repository interfaces (not the concrete DB)
	//   Handlers receive the services (not the repositories)
	//
	// The handler never touches the database directly. The service never
	// touches HTTP. Clean separation!
	authService := service.NewAuthService(s.db.Users(), mailer, tokens, s.logger)
	noteService := service.NewNoteService(s.db.Notes(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	noteHandler := handler.NewNoteHandler(noteService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public auth flow — rate-limited so one IP can't flood inboxes.
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimit(authRateLimit, authRateWindow))
			r.Post("/request-otp", authHandler.HandleRequestOTP)
			r.Post("/request-otp-in", authHandler.HandleRequestOTPSignIn)
			r.Post("/verify-otp", authHandler.HandleVerifyOTP)
		})

		// Everything below requires a valid session token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
			r.Get("/notes", noteHandler.HandleList)
			r.Post("/notes", noteHandler.HandleCreate)
			r.Delete("/notes/{id}", noteHandler.HandleDelete)
		})
	})

	return nil
}

// Router exposes the configured router, mainly so tests can drive the full
// HTTP stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Used by tests.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give in-flight requests 30 seconds to complete
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
