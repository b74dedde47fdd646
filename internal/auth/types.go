package auth

import (
	"context"
	"time"

	"gallery-server/internal/models"
)

// CaptchaVerifier is the captcha service surface the login flow depends on.
// Validate must not consume the challenge; CommitUsed burns it.
type CaptchaVerifier interface {
	Validate(ctx context.Context, sessionKey, submitted string) (*models.Captcha, error)
	CommitUsed(ctx context.Context, challenge *models.Captcha) error
}

// LoginParams carries one captcha-gated login attempt.
type LoginParams struct {
	Username          string
	Password          string
	CaptchaSessionKey string
	CaptchaCode       string
	IP                string
	UserAgent         string
}

// AuthTokens is the credential pair issued after a successful login.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
