package logics

import (
	"context"
	"sync"
	"testing"
	"time"

	"gallery-server/configs"
	"gallery-server/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newCaptchaTestService(t *testing.T, cfg configs.CaptchaConfig) (*CaptchaService, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database shared and serializes
	// concurrent writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Captcha{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return NewCaptchaService(db, rdb, zap.NewNop(), cfg), db, mr
}

func seedChallenge(t *testing.T, db *gorm.DB, sessionKey, code string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Captcha{
		SessionKey: sessionKey,
		Code:       code,
		ExpiresAt:  expiresAt,
	}).Error)
}

func TestCaptchaServiceIssueChallenge(t *testing.T) {
	svc, db, mr := newCaptchaTestService(t, configs.CaptchaConfig{})
	ctx := context.Background()

	challenge, err := svc.IssueChallenge(ctx)
	require.NoError(t, err)

	assert.Len(t, challenge.SessionKey, 64)
	assert.NotEmpty(t, challenge.Image)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), challenge.ExpiresAt, 5*time.Second)

	// The row and the cached image must both exist.
	var record models.Captcha
	require.NoError(t, db.Where("session_key = ?", challenge.SessionKey).First(&record).Error)
	assert.False(t, record.Used)
	assert.Len(t, record.Code, 4)

	cached, err := mr.Get(captchaImagePrefix + challenge.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, string(challenge.Image), cached)
}

func TestCaptchaServiceIssueChallengeRollsBackOnCacheFailure(t *testing.T) {
	svc, db, mr := newCaptchaTestService(t, configs.CaptchaConfig{})
	ctx := context.Background()

	mr.Close()

	_, err := svc.IssueChallenge(ctx)
	require.Error(t, err)

	// No half-issued challenge may survive.
	var count int64
	require.NoError(t, db.Model(&models.Captcha{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCaptchaServiceValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown session", func(t *testing.T) {
		svc, _, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
		_, err := svc.Validate(ctx, "no-such-session", "ABCD")
		assert.True(t, IsCaptchaError(err, ErrCaptchaInvalidSession))
	})

	t.Run("expired challenge", func(t *testing.T) {
		svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
		seedChallenge(t, db, "expired-key", "ABCD", time.Now().Add(-time.Minute))

		_, err := svc.Validate(ctx, "expired-key", "ABCD")
		assert.True(t, IsCaptchaError(err, ErrCaptchaExpired))
	})

	t.Run("wrong code does not consume the challenge", func(t *testing.T) {
		svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
		seedChallenge(t, db, "live-key", "ABCD", time.Now().Add(time.Minute))

		_, err := svc.Validate(ctx, "live-key", "WXYZ")
		assert.True(t, IsCaptchaError(err, ErrCaptchaWrongCode))

		// A corrected retry against the same challenge still works.
		challenge, err := svc.Validate(ctx, "live-key", "ABCD")
		require.NoError(t, err)
		assert.False(t, challenge.Used)
	})

	t.Run("comparison ignores case and surrounding whitespace", func(t *testing.T) {
		svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
		seedChallenge(t, db, "case-key", "AB3D", time.Now().Add(time.Minute))

		_, err := svc.Validate(ctx, "case-key", "  ab3d ")
		assert.NoError(t, err)
	})

	t.Run("used challenge is rejected before the code check", func(t *testing.T) {
		svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
		seedChallenge(t, db, "used-key", "ABCD", time.Now().Add(time.Minute))
		require.NoError(t, db.Model(&models.Captcha{}).Where("session_key = ?", "used-key").Update("used", true).Error)

		_, err := svc.Validate(ctx, "used-key", "WXYZ")
		assert.True(t, IsCaptchaError(err, ErrCaptchaAlreadyUsed))
	})
}

func TestCaptchaServiceCommitUsed(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
	seedChallenge(t, db, "commit-key", "ABCD", time.Now().Add(time.Minute))

	challenge, err := svc.Validate(ctx, "commit-key", "ABCD")
	require.NoError(t, err)

	require.NoError(t, svc.CommitUsed(ctx, challenge))
	assert.True(t, challenge.Used)

	// A second commit of the same challenge must lose.
	err = svc.CommitUsed(ctx, &models.Captcha{SessionKey: "commit-key"})
	assert.True(t, IsCaptchaError(err, ErrCaptchaAlreadyUsed))
}

func TestCaptchaServiceVerifyAndConsumeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
	seedChallenge(t, db, "one-shot", "ABCD", time.Now().Add(time.Minute))

	require.NoError(t, svc.VerifyAndConsume(ctx, "one-shot", "ABCD"))

	err := svc.VerifyAndConsume(ctx, "one-shot", "ABCD")
	assert.True(t, IsCaptchaError(err, ErrCaptchaAlreadyUsed))
}

func TestCaptchaServiceConcurrentConsumption(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newCaptchaTestService(t, configs.CaptchaConfig{})
	seedChallenge(t, db, "race-key", "ABCD", time.Now().Add(time.Minute))

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.VerifyAndConsume(ctx, "race-key", "ABCD")
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.True(t, IsCaptchaError(err, ErrCaptchaAlreadyUsed))
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent attempt may consume the challenge")
}

func TestCaptchaServiceImage(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := newCaptchaTestService(t, configs.CaptchaConfig{})

	require.NoError(t, mr.Set(captchaImagePrefix+"img-key", "png-bytes"))

	img, err := svc.Image(ctx, "img-key")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), img)

	_, err = svc.Image(ctx, "missing-key")
	assert.True(t, IsCaptchaError(err, ErrCaptchaInvalidSession))
}

func TestCaptchaServicePurgeExpired(t *testing.T) {
	ctx := context.Background()
	svc, db, mr := newCaptchaTestService(t, configs.CaptchaConfig{})

	now := time.Now()
	seedChallenge(t, db, "stale-used", "ABCD", now.Add(-time.Hour))
	require.NoError(t, db.Model(&models.Captcha{}).Where("session_key = ?", "stale-used").Update("used", true).Error)
	seedChallenge(t, db, "stale-fresh", "EFGH", now.Add(-time.Second))
	seedChallenge(t, db, "boundary", "JKLM", now)
	seedChallenge(t, db, "live", "NPQR", now.Add(time.Hour))

	require.NoError(t, mr.Set(captchaImagePrefix+"stale-used", "a"))
	require.NoError(t, mr.Set(captchaImagePrefix+"stale-fresh", "b"))
	require.NoError(t, mr.Set(captchaImagePrefix+"live", "c"))

	deleted, err := svc.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	// Used or not, past-expiry rows are gone; the boundary row whose expiry
	// equals now is retained, as is the live one.
	var keys []string
	require.NoError(t, db.Model(&models.Captcha{}).Order("session_key").Pluck("session_key", &keys).Error)
	assert.Equal(t, []string{"boundary", "live"}, keys)

	assert.False(t, mr.Exists(captchaImagePrefix+"stale-used"))
	assert.False(t, mr.Exists(captchaImagePrefix+"stale-fresh"))
	assert.True(t, mr.Exists(captchaImagePrefix+"live"))
}
