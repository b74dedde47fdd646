package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery-server/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService gates username/password login behind the captcha service and
// issues session credentials on success.
type AuthService struct {
	db      *gorm.DB
	captcha CaptchaVerifier
	tokens  *TokenManager
	logger  *zap.Logger
}

func NewAuthService(db *gorm.DB, captcha CaptchaVerifier, tokens *TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{db: db, captcha: captcha, tokens: tokens, logger: logger}
}

// LoginWithCaptcha authenticates one login attempt.
//
// The captcha is validated strictly before the credential check, so an
// attacker cannot probe username/password validity without first solving a
// challenge. Once a submission validates, the challenge is burned whether or
// not the rest of the login succeeds: a correct captcha answer cannot be
// replayed against further credential guesses.
func (svc *AuthService) LoginWithCaptcha(ctx context.Context, params LoginParams) (*AuthTokens, *models.User, error) {
	challenge, err := svc.captcha.Validate(ctx, params.CaptchaSessionKey, params.CaptchaCode)
	if err != nil {
		svc.logger.Info("login rejected by captcha",
			zap.String("username", params.Username),
			zap.String("ip", params.IP),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("captcha rejected: %w", err)
	}
	// Burn the challenge before touching credentials. If a concurrent commit
	// won the race this attempt loses with captcha_already_used.
	if err := svc.captcha.CommitUsed(ctx, challenge); err != nil {
		return nil, nil, fmt.Errorf("captcha rejected: %w", err)
	}

	var user models.User
	result := svc.db.WithContext(ctx).Where("username = ?", params.Username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			svc.logger.Info("login failed: unknown user",
				zap.String("username", params.Username),
				zap.String("ip", params.IP),
			)
			return nil, nil, NewAuthError(ErrInvalidCredentials, "username or password is incorrect")
		}
		return nil, nil, fmt.Errorf("user lookup failed: %w", result.Error)
	}

	if err := VerifyPassword(user.Password, params.Password, user.Hash); err != nil {
		svc.logger.Info("login failed: bad password",
			zap.String("username", params.Username),
			zap.String("ip", params.IP),
		)
		return nil, nil, NewAuthError(ErrInvalidCredentials, "username or password is incorrect")
	}

	if !user.Enabled() {
		svc.logger.Info("login failed: account disabled",
			zap.String("username", params.Username),
			zap.String("status", user.AccountStatus),
		)
		return nil, nil, NewAuthError(ErrAccountDisabled, "account is disabled")
	}

	accessToken, err := svc.tokens.GenerateAccessToken(&user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, tokenRecord := svc.tokens.GenerateRefreshToken(user.ID)
	if err := svc.db.WithContext(ctx).Create(tokenRecord).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at": &now,
		"last_login_ip": params.IP,
	}
	if err := svc.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		svc.logger.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}

	svc.logger.Info("login succeeded",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("ip", params.IP),
	)

	tokens := &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(accessTokenTTL()),
	}
	return tokens, &user, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair.
func (svc *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, *models.User, error) {
	user, newRefreshToken, err := svc.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := svc.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	tokens := &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(accessTokenTTL()),
	}
	return tokens, user, nil
}

// Logout revokes both halves of a session's credentials.
func (svc *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if refreshToken != "" {
		if err := svc.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return err
		}
	}
	if accessToken != "" {
		if err := svc.tokens.RevokeAccessToken(ctx, accessToken); err != nil {
			return err
		}
	}
	return nil
}
