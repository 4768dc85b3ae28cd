package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/peopleops/hris-lifecycle/internal/application/service"
	"github.com/peopleops/hris-lifecycle/internal/domain/entity"
)

// SMTPConfig holds SMTP delivery configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers notifications over SMTP.
type SMTPSender struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(config SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send delivers one notification to its recipient.
func (s *SMTPSender) Send(ctx context.Context, n *entity.Notification) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&msg, "To: %s\r\n", n.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.Subject)
	msg.WriteString("\r\n")
	msg.WriteString(n.Body)
	msg.WriteString("\r\n")

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.From, []string{n.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", n.Recipient, err)
	}

	s.logger.Info("Notification mail sent",
		zap.Int64("notification_id", n.ID),
		zap.String("recipient", n.Recipient))

	return nil
}

// LogSender writes notifications to the log instead of delivering them.
// Used in development and tests when no SMTP host is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a new log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the notification and reports success.
func (s *LogSender) Send(ctx context.Context, n *entity.Notification) error {
	s.logger.Info("Notification (log only)",
		zap.Int64("notification_id", n.ID),
		zap.String("recipient", n.Recipient),
		zap.String("subject", n.Subject))
	return nil
}

// Verify interface compliance
var (
	_ service.Sender = (*SMTPSender)(nil)
	_ service.Sender = (*LogSender)(nil)
)
