// Package notify delivers email notifications, either to an HTTP webhook or
// to the application log when no webhook is configured.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"commerce-service/internal/domain/event"
)

// Sender delivers an email notification.
type Sender interface {
	Send(ctx context.Context, n event.EmailNotification) error
}

// WebhookSender posts notifications as JSON to an HTTP endpoint.
type WebhookSender struct {
	client *resty.Client
	url    string
	log    *zap.Logger
}

// NewWebhookSender creates a WebhookSender with the given request timeout.
func NewWebhookSender(url string, timeout time.Duration, log *zap.Logger) *WebhookSender {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})
	return &WebhookSender{client: client, url: strings.TrimSpace(url), log: log}
}

// Send posts n to the webhook. Non-2xx responses are returned as errors.
func (s *WebhookSender) Send(ctx context.Context, n event.EmailNotification) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(n).
		Post(s.url)
	if err != nil {
		s.log.Error("email webhook request failed", zap.String("recipient", n.RecipientEmail), zap.Error(err))
		return fmt.Errorf("email webhook: %w", err)
	}
	if resp.IsError() {
		s.log.Error("email webhook rejected notification",
			zap.String("recipient", n.RecipientEmail),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("email webhook: unexpected status %d", resp.StatusCode())
	}

	s.log.Info("email sent",
		zap.String("to", n.RecipientEmail),
		zap.String("subject", n.Subject),
		zap.String("type", n.EventType))
	return nil
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	log *zap.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send logs n and never fails.
func (s *LogSender) Send(_ context.Context, n event.EmailNotification) error {
	s.log.Info("email sent",
		zap.String("to", n.RecipientEmail),
		zap.String("subject", n.Subject),
		zap.String("type", n.EventType),
		zap.String("delivery", "log"))
	return nil
}

// New returns a WebhookSender when url is set and a LogSender otherwise.
func New(url string, timeout time.Duration, log *zap.Logger) Sender {
	if strings.TrimSpace(url) == "" {
		return NewLogSender(log)
	}
	return NewWebhookSender(url, timeout, log)
}
