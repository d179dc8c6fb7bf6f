// Package mailer sends transactional email over SMTP. The platform uses it
// for payment receipts after a checkout settles.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// ErrNotConfigured means the mailer has no SMTP credentials; sends are skipped.
var ErrNotConfigured = errors.New("mailer is not configured")

// Mailer sends email through an SMTP relay.
type Mailer struct {
	host   string
	port   string
	user   string
	pass   string
	sender string
}

// Config holds SMTP connection settings.
type Config struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

// New creates a Mailer. Defaults target Gmail's relay when host/port are
// unset, matching the deployment this started from.
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	sender := cfg.Sender
	if sender == "" {
		sender = cfg.User
	}
	return &Mailer{
		host:   cfg.Host,
		port:   cfg.Port,
		user:   cfg.User,
		pass:   cfg.Pass,
		sender: sender,
	}
}

// Configured reports whether the mailer has credentials to send with.
func (m *Mailer) Configured() bool {
	return m != nil && m.user != "" && m.pass != ""
}

// Send delivers a message to the recipient. The body is sent as HTML when it
// looks like markup, plain text otherwise.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	contentType := "text/plain; charset=\"UTF-8\""
	if strings.Contains(body, "<html") || strings.Contains(body, "<body") || strings.Contains(body, "</p>") {
		contentType = "text/html; charset=\"UTF-8\""
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s\r\n",
		m.sender, to, subject, contentType, body,
	))

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to '%s': %w", to, err)
	}
	return nil
}
