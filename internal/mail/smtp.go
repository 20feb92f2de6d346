package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/lectoria/lectoria/internal/config"
)

// SMTPMailer sends email through a plain-auth SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer builds an SMTP-backed mailer.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp not configured")
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers a single HTML message.
func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		htmlBody + "\r\n"

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}
