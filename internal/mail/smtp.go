package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	gosmtp "net/smtp"
	"time"
)

const dialTimeout = 10 * time.Second

// SMTPMailer sends OTP emails over SMTP.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.FromName == "" {
		cfg.FromName = "NoteWave"
	}
	if cfg.Encryption == "" {
		cfg.Encryption = "starttls"
	}
	return &SMTPMailer{cfg: cfg}
}

// SendOTP renders the OTP email and delivers it to the address.
//
// The context only bounds the setup; net/smtp itself does not take a context,
// so the dial timeout is the effective transport bound.
func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderOTPBody(code)
	if err != nil {
		return err
	}
	msg := buildMessage(m.cfg, to, "Your OTP Code", body)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	switch m.cfg.Encryption {
	case "ssl":
		return m.sendSSL(addr, to, msg)
	case "none":
		return m.sendPlain(addr, to, msg)
	default: // "starttls"
		return m.sendStartTLS(addr, to, msg)
	}
}

// sendStartTLS sends using STARTTLS (port 587 typical).
func (m *SMTPMailer) sendStartTLS(addr, to, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("mail: connecting to %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("mail: creating smtp client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("mail: starting TLS: %w", err)
	}

	if err := m.authenticate(client); err != nil {
		return err
	}
	return m.sendMessage(client, to, msg)
}

// sendSSL sends using implicit SSL/TLS (port 465 typical).
func (m *SMTPMailer) sendSSL(addr, to, msg string) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("mail: connecting to %s (SSL): %w", addr, err)
	}
	defer conn.Close()

	client, err := gosmtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("mail: creating smtp client: %w", err)
	}
	defer client.Close()

	if err := m.authenticate(client); err != nil {
		return err
	}
	return m.sendMessage(client, to, msg)
}

// sendPlain sends without encryption.
func (m *SMTPMailer) sendPlain(addr, to, msg string) error {
	var auth gosmtp.Auth
	if m.cfg.Username != "" {
		auth = gosmtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := gosmtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: sending mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) authenticate(client *gosmtp.Client) error {
	if m.cfg.Username == "" {
		return nil
	}
	auth := gosmtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: authenticating: %w", err)
	}
	return nil
}

// sendMessage handles MAIL FROM, RCPT TO, DATA for an existing SMTP client.
func (m *SMTPMailer) sendMessage(client *gosmtp.Client, to, msg string) error {
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mail: RCPT TO %s: %w", to, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("mail: writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: closing data: %w", err)
	}
	return client.Quit()
}
