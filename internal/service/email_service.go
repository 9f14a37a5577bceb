package service

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// Mailer отправляет транзакционные письма
type Mailer interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
}

// NoopMailer используется, когда отправка писем не настроена
type NoopMailer struct {
	logger *zap.Logger
}

func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopMailer{logger: logger.Named("NoopMailer")}
}

func (m *NoopMailer) SendWelcome(ctx context.Context, toEmail, name string) error {
	m.logger.Debug("noop send welcome email", zap.String("to", toEmail))
	return nil
}

// ResendMailer отправляет письма через Resend REST API
type ResendMailer struct {
	from   string
	client *resend.Client
}

func NewResendMailer(apiKey, from string) (*ResendMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendMailer{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (m *ResendMailer) SendWelcome(ctx context.Context, toEmail, name string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: "Welcome to N-Back",
		Text:    fmt.Sprintf("%s,\n\nyour account is ready. Train daily and only your best attempt of the day is kept.", greeting),
		Html:    fmt.Sprintf("<p>%s,</p><p>your account is ready. Train daily and only your best attempt of the day is kept.</p>", html.EscapeString(greeting)),
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
