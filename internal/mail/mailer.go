// Package mail delivers one-time passcodes to users by email.
//
// The rest of the application only sees the Mailer interface; the concrete
// SMTP transport (STARTTLS, implicit SSL, or plain) is chosen by config.
// Delivery is synchronous best-effort: the caller observes success or failure
// of the send, nothing more.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// Mailer sends a one-time passcode to an address.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// Config holds the SMTP settings, supplied from the environment.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string // sender address
	FromName   string // display name, e.g. "NoteWave"
	Encryption string // "starttls" (default), "ssl", or "none"
}

// Configured reports whether enough settings are present to attempt delivery.
func (c Config) Configured() bool {
	return c.Host != "" && c.From != ""
}

// buildMessage assembles the RFC 2822 message for an OTP email.
func buildMessage(cfg Config, to, subject, body string) string {
	from := mail.Address{Name: cfg.FromName, Address: cfg.From}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from.String()))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}

// LogMailer is a Mailer that only logs the code instead of sending it.
// Used when SMTP is unconfigured so the server stays usable in development —
// the code shows up in the server log.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(_ context.Context, to, code string) error {
	m.logger.Info("OTP delivery (log only — SMTP not configured)",
		slog.String("to", to),
		slog.String("code", code),
	)
	return nil
}
