package security

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email string, link string) error
}

// LogMailer writes recovery links to the log instead of sending them.
type LogMailer struct {
	Logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{Logger: logger}
}

func (m *LogMailer) SendPasswordReset(_ context.Context, email string, link string) error {
	m.Logger.Info("Password recovery requested", zap.String("email", email), zap.String("link", link))
	return nil
}
