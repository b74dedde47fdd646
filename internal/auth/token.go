package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"gallery-server/configs"
	"gallery-server/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TokenManager issues and validates access and refresh tokens.
type TokenManager struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewTokenManager(db *gorm.DB, rdb *redis.Client) *TokenManager {
	return &TokenManager{db: db, redis: rdb}
}

func accessTokenTTL() time.Duration {
	minutes := configs.Configs.Authn.AccessJwtExpireMin
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

func refreshTokenTTL() time.Duration {
	minutes := configs.Configs.Authn.RefreshTokenExpireMin
	if minutes <= 0 {
		minutes = 60 * 24 * 30
	}
	return time.Duration(minutes) * time.Minute
}

// GenerateAccessToken signs a new ES256 access token for the user.
func (tm *TokenManager) GenerateAccessToken(user *models.User) (string, error) {
	privateKeyPEM := configs.Configs.Secrets.EcdsaPrivateKey
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil || block.Type != "EC PRIVATE KEY" {
		return "", errors.New("failed to decode PEM block containing EC private key")
	}

	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"iss":   configs.Configs.Service.ServiceName,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	return token.SignedString(privateKey)
}

// ParseAccessToken verifies the signature and expiry of an access token and
// returns its claims.
func ParseAccessToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, errors.New("unexpected signing method")
		}

		publicKeyPEM := configs.Configs.Secrets.EcdsaPublicKey
		block, _ := pem.Decode([]byte(publicKeyPEM))
		if block == nil {
			return nil, errors.New("failed to decode PEM block containing public key")
		}
		pubKeyInterface, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		pubKey, ok := pubKeyInterface.(*ecdsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not an ECDSA public key")
		}
		return pubKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// GenerateRefreshToken creates a new random refresh token record for a user.
// The record is returned unsaved; the caller persists it.
func (tm *TokenManager) GenerateRefreshToken(userID string) (string, *models.Token) {
	tokenStr := GenerateRandomString(64)
	tokenRecord := &models.Token{
		UserID:    userID,
		Token:     tokenStr,
		TokenType: "refresh",
		ExpiresAt: time.Now().Add(refreshTokenTTL()),
	}
	return tokenStr, tokenRecord
}

// ValidateRefreshToken checks a refresh token and rotates it, returning the
// owning user and the replacement token.
func (tm *TokenManager) ValidateRefreshToken(ctx context.Context, refreshToken string) (*models.User, string, error) {
	var tokenRecord models.Token
	if err := tm.db.WithContext(ctx).Where("token = ?", refreshToken).First(&tokenRecord).Error; err != nil {
		return nil, "", NewAuthError(ErrInvalidToken, "refresh token is invalid or revoked")
	}

	if time.Now().After(tokenRecord.ExpiresAt) {
		_ = tm.db.WithContext(ctx).Delete(&tokenRecord).Error
		return nil, "", NewAuthError(ErrTokenExpired, "refresh token has expired")
	}

	var user models.User
	if err := tm.db.WithContext(ctx).First(&user, "id = ?", tokenRecord.UserID).Error; err != nil {
		return nil, "", NewAuthError(ErrUserNotFound, "user not found")
	}

	// Rotate: the presented token is replaced in the same transaction.
	newToken, newRecord := tm.GenerateRefreshToken(user.ID)
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&tokenRecord).Error; err != nil {
			return err
		}
		return tx.Create(newRecord).Error
	})
	if err != nil {
		return nil, "", NewAuthErrorWithCause(ErrInvalidToken, "failed to rotate refresh token", err)
	}

	return &user, newToken, nil
}

// RevokeRefreshToken deletes a refresh token record.
func (tm *TokenManager) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	if err := tm.db.WithContext(ctx).Where("token = ?", refreshToken).Delete(&models.Token{}).Error; err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAccessToken adds an access token to the Redis revocation list until
// its natural expiry would have passed.
func (tm *TokenManager) RevokeAccessToken(ctx context.Context, accessToken string) error {
	hashValue := sha256.Sum256([]byte(accessToken))
	redisKey := RevokedTokenPrefix + hex.EncodeToString(hashValue[:])
	if err := tm.redis.Set(ctx, redisKey, "1", accessTokenTTL()).Err(); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	return nil
}

// IsAccessTokenRevoked checks the Redis revocation list.
func (tm *TokenManager) IsAccessTokenRevoked(ctx context.Context, accessToken string) (bool, error) {
	hashValue := sha256.Sum256([]byte(accessToken))
	redisKey := RevokedTokenPrefix + hex.EncodeToString(hashValue[:])
	_, err := tm.redis.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
