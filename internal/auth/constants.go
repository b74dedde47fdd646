package auth

// Redis key prefixes.
const (
	RevokedTokenPrefix = "at:revoked:"
)

// Auth error codes.
const (
	ErrInvalidCredentials = "invalid_credentials"
	ErrAccountDisabled    = "account_disabled"
	ErrInvalidToken       = "invalid_token"
	ErrTokenExpired       = "token_expired"
	ErrUserNotFound       = "user_not_found"
)
