package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/lucroclaro/backend/src/config"
	"github.com/username/lucroclaro/backend/src/logger"
)

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SyncReportRecipient == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SyncReportRecipient missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
			recipient:   config.Cfg.SyncReportRecipient,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

type MailgunEmailService struct {
	mg          *mailgun.MailgunImpl
	senderEmail string
	senderName  string
	recipient   string
}

func (s *MailgunEmailService) SendSyncReport(result *SyncResult) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := fmt.Sprintf("Order sync finished: %d synced, %d failed", result.Synced, result.Failed)

	var failures strings.Builder
	for _, orderErr := range result.Errors {
		if orderErr.OrderID != 0 {
			fmt.Fprintf(&failures, "- order %d: %s\n", orderErr.OrderID, orderErr.Reason)
		} else {
			fmt.Fprintf(&failures, "- %s\n", orderErr.Reason)
		}
	}
	if failures.Len() == 0 {
		failures.WriteString("(none)\n")
	}

	plainTextBody := fmt.Sprintf(`Order sync report

Fetched: %d
Synced:  %d
Failed:  %d
Duration: %s

Failures:
%s`, result.Fetched, result.Synced, result.Failed, result.Duration, failures.String())

	message := s.mg.NewMessage(from, subject, plainTextBody, s.recipient)
	message.AddTag("sync-report")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()
	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send sync report via Mailgun", "error", err, "to", s.recipient, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Sync report sent via Mailgun", "to", s.recipient, "id", id)
	return nil
}

// MockEmailService logs instead of sending. Used when no provider is
// configured, so sync runs never fail on email delivery.
type MockEmailService struct{}

func (s *MockEmailService) SendSyncReport(result *SyncResult) error {
	if logger.L != nil {
		logger.L.Info("MOCK EMAIL: sync report",
			"fetched", result.Fetched, "synced", result.Synced, "failed", result.Failed, "duration", result.Duration)
	}
	return nil
}
