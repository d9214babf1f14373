// Package main is the entry point for the NoteWave server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main" package.
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars)
// 2. Create dependencies (logger, mailer)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/notewave/internal/mail"
	"github.com/sakif/notewave/internal/server"
)

func main() {
	// === 1. SET UP LOGGING ===
	// slog.New creates a structured logger. TextHandler gives human-readable
	// lines on stdout; in production you'd likely switch to JSONHandler and
	// raise the level to Info.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 2. READ CONFIGURATION ===
	// Env vars with defaults. In a larger app you'd use a config library,
	// but for a service this size env vars are simple and standard.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// JWT_SECRET signs session tokens. It must be a long random string:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// There is no default — every token the server ever issued is forgeable
	// by anyone who knows the secret, so refusing to guess one is safer.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET not set — refusing to start without a signing key")
		os.Exit(1)
	}

	// === 3. DATABASE PATH ===
	// DB_PATH overrides the default for production deployments,
	// e.g. DB_PATH=/var/lib/notewave/prod.db
	dbPath := "data/notewave.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. MAILER ===
	// With SMTP configured the server emails real codes; without it the
	// LogMailer prints each code to the server log so the flow still works
	// in development.
	smtpCfg := mail.Config{
		Host:       os.Getenv("SMTP_HOST"),
		Username:   os.Getenv("SMTP_USER"),
		Password:   os.Getenv("SMTP_PASS"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   os.Getenv("SMTP_FROM_NAME"),
		Encryption: os.Getenv("SMTP_ENCRYPTION"),
	}
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid SMTP_PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
		smtpCfg.Port = p
	}

	var mailer mail.Mailer
	if smtpCfg.Configured() {
		mailer = mail.NewSMTPMailer(smtpCfg)
		logger.Info("SMTP mailer configured", slog.String("host", smtpCfg.Host))
	} else {
		mailer = mail.NewLogMailer(logger)
		logger.Warn("SMTP not configured — OTP codes will be printed to the log")
	}

	// === 5. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: jwtSecret,
	}

	srv, err := server.New(cfg, logger, mailer)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
