package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/leak-ticket-service/internal/config"
)

// EmailSender delivers a composed notification message.
type EmailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// NewEmailSender picks SMTP delivery when a host is configured and
// falls back to logging the message otherwise.
func NewEmailSender(cfg config.NotificationConfig, logger *zap.Logger) EmailSender {
	if strings.TrimSpace(cfg.SMTPHost) != "" {
		return &smtpSender{cfg: cfg}
	}
	logger.Warn("NOTIFY_SMTP_HOST not set; email notifications will only be logged")
	return &logSender{logger: logger}
}

type smtpSender struct {
	cfg config.NotificationConfig
}

func (s *smtpSender) Send(_ context.Context, recipients []string, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.EmailFrom, strings.Join(recipients, ","), subject, body)

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.EmailFrom, recipients, []byte(msg))
}

type logSender struct {
	logger *zap.Logger
}

func (s *logSender) Send(_ context.Context, recipients []string, subject, body string) error {
	s.logger.Info("email notification",
		zap.Strings("to", recipients),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))
	return nil
}
