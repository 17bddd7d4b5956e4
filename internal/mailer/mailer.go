// Package mailer sends transactional email.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	Encryption string // "", ssl, tls or starttls
	FromEmail  string
	FromName   string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through gomail.
type SMTPMailer struct {
	cfg    SMTPConfig
	d      dialer
	logger *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.FromEmail == "" {
		return nil, errors.New("SMTP host, port and sender email must be configured")
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &SMTPMailer{cfg: cfg, d: d, logger: logger.Named("SMTPMailer")}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("no recipient provided for email")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled", zap.String("subject", msg.Subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email", zap.String("subject", msg.Subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.logger.Info("Email sent", zap.String("subject", msg.Subject))
	return nil
}
