package logics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gallery-server/configs"
	"gallery-server/internal/captcha"
	"gallery-server/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Redis key prefix for cached challenge images.
const captchaImagePrefix = "captcha:image:"

// CaptchaService issues visual challenges and validates submitted answers.
// The challenge row in Postgres is the source of truth for state; the
// rendered PNG is cached in Redis under the session key with the same TTL.
type CaptchaService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
	cfg    configs.CaptchaConfig
}

// NewCaptchaService creates a CaptchaService. Zero values in cfg fall back to
// the reference policy: 5-minute TTL, 4-character code, 120x50 canvas.
func NewCaptchaService(db *gorm.DB, rdb *redis.Client, logger *zap.Logger, cfg configs.CaptchaConfig) *CaptchaService {
	if cfg.TTL == 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.CodeLength == 0 {
		cfg.CodeLength = captcha.DefaultCodeLength
	}
	if cfg.ImageWidth == 0 {
		cfg.ImageWidth = captcha.DefaultWidth
	}
	if cfg.ImageHeight == 0 {
		cfg.ImageHeight = captcha.DefaultHeight
	}
	return &CaptchaService{db: db, redis: rdb, logger: logger, cfg: cfg}
}

// IssuedChallenge is the public-facing result of issuing a challenge. The
// code itself never leaves the service.
type IssuedChallenge struct {
	SessionKey string    `json:"session_key"`
	Image      []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IssueChallenge creates and persists a fresh challenge: a random code, its
// rendered PNG, and a new session key. Expired rows are swept opportunistically
// first; a failed sweep is logged and never blocks issuance. The row and the
// image are written together so a challenge without a viewable image is never
// returned to a client.
func (s *CaptchaService) IssueChallenge(ctx context.Context) (*IssuedChallenge, error) {
	if n, err := s.PurgeExpired(ctx, time.Now()); err != nil {
		s.logger.Warn("captcha purge failed during issuance", zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("purged expired captchas", zap.Int64("count", n))
	}

	code, err := captcha.GenerateCode(s.cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate captcha code: %w", err)
	}
	img, err := captcha.Render(code, s.cfg.ImageWidth, s.cfg.ImageHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to render captcha image: %w", err)
	}
	sessionKey, err := captcha.NewSessionKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	now := time.Now()
	record := &models.Captcha{
		SessionKey: sessionKey,
		Code:       code,
		ExpiresAt:  now.Add(s.cfg.TTL),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to store captcha challenge: %w", err)
		}
		if err := s.redis.Set(ctx, captchaImagePrefix+sessionKey, img, s.cfg.TTL).Err(); err != nil {
			return fmt.Errorf("failed to cache captcha image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &IssuedChallenge{
		SessionKey: sessionKey,
		Image:      img,
		CreatedAt:  record.CreatedAt,
		ExpiresAt:  record.ExpiresAt,
	}, nil
}

// Validate checks a submitted code against the challenge held under
// sessionKey without consuming it. Checks run in a fixed order so the caller
// gets the most specific failure: existence, expiry, used state, then the
// case-insensitive code comparison. On success the challenge is returned
// unchanged; committing the used flip is the caller's decision.
func (s *CaptchaService) Validate(ctx context.Context, sessionKey, submitted string) (*models.Captcha, error) {
	var challenge models.Captcha
	if err := s.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewCaptchaError(ErrCaptchaInvalidSession, "unknown captcha session")
		}
		return nil, fmt.Errorf("captcha lookup failed: %w", err)
	}

	// Expired rows are left in place for the next purge sweep.
	if challenge.Expired(time.Now()) {
		return nil, NewCaptchaError(ErrCaptchaExpired, "captcha has expired")
	}
	if challenge.Used {
		return nil, NewCaptchaError(ErrCaptchaAlreadyUsed, "captcha has already been used")
	}
	if !strings.EqualFold(strings.TrimSpace(submitted), challenge.Code) {
		return nil, NewCaptchaError(ErrCaptchaWrongCode, "incorrect captcha code")
	}
	return &challenge, nil
}

// CommitUsed flips the challenge to used via a conditional update keyed on
// used=false. Two concurrent commits of the same token cannot both succeed:
// the loser sees zero rows affected and gets captcha_already_used.
func (s *CaptchaService) CommitUsed(ctx context.Context, challenge *models.Captcha) error {
	res := s.db.WithContext(ctx).Model(&models.Captcha{}).
		Where("session_key = ? AND used = ?", challenge.SessionKey, false).
		Update("used", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark captcha used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewCaptchaError(ErrCaptchaAlreadyUsed, "captcha has already been used")
	}
	challenge.Used = true
	return nil
}

// VerifyAndConsume validates a submission and, when it matches, burns the
// challenge. This is the standalone verification flow; composite flows call
// Validate and CommitUsed separately.
func (s *CaptchaService) VerifyAndConsume(ctx context.Context, sessionKey, submitted string) error {
	challenge, err := s.Validate(ctx, sessionKey, submitted)
	if err != nil {
		return err
	}
	return s.CommitUsed(ctx, challenge)
}

// Image returns the cached PNG for a live challenge.
func (s *CaptchaService) Image(ctx context.Context, sessionKey string) ([]byte, error) {
	b, err := s.redis.Get(ctx, captchaImagePrefix+sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, NewCaptchaError(ErrCaptchaInvalidSession, "unknown captcha session")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load captcha image: %w", err)
	}
	return b, nil
}

// PurgeExpired deletes every challenge whose expiry is strictly before now,
// used or not, removing cached image bytes before the rows so a failed sweep
// can be retried without orphaned blobs. It returns the number of rows
// deleted. This is the only deletion path for challenges.
func (s *CaptchaService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&models.Captcha{}).
		Where("expires_at < ?", now).
		Pluck("session_key", &keys).Error; err != nil {
		return 0, fmt.Errorf("failed to list expired captchas: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = captchaImagePrefix + k
	}
	if err := s.redis.Del(ctx, redisKeys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete captcha images: %w", err)
	}

	res := s.db.WithContext(ctx).Where("session_key IN ?", keys).Delete(&models.Captcha{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired captchas: %w", res.Error)
	}
	return res.RowsAffected, nil
}
