package mail

import (
	"context"

	"appnube-sync-layer/internal/ports"

	"github.com/rs/zerolog"
)

// LogMailer writes verification mails to the log instead of sending them.
// Used in development and until an SMTP provider is wired in.
type LogMailer struct {
	baseURL string
	logger  zerolog.Logger
}

// NewLogMailer creates a mailer that only logs
func NewLogMailer(baseURL string, logger zerolog.Logger) ports.Mailer {
	return &LogMailer{baseURL: baseURL, logger: logger}
}

// SendVerification logs the verification link for the given address
func (m *LogMailer) SendVerification(ctx context.Context, email, token string) error {
	m.logger.Info().
		Str("email", email).
		Str("verify_url", m.baseURL+"/api/auth/verify?token="+token).
		Msg("Verification mail (log only)")
	return nil
}
