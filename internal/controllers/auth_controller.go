package controllers

import (
	"net/http"

	"gallery-server/internal/auth"
	"gallery-server/internal/logics"
	"gallery-server/internal/middlewares"

	"github.com/labstack/echo/v4"
)

// AuthController handles captcha-gated login and token lifecycle.
type AuthController struct {
	authService *auth.AuthService
}

func NewAuthController(authService *auth.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// LoginRequest is the payload for captcha-gated login.
type LoginRequest struct {
	Username          string `json:"username" form:"username"`
	Password          string `json:"password" form:"password"`
	CaptchaSessionKey string `json:"captcha_session_key" form:"captcha_session_key"`
	CaptchaCode       string `json:"captcha_code" form:"captcha_code"`
}

// RefreshRequest carries the refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// LogoutRequest revokes both tokens of a session.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// LoginHandler authenticates a user. The captcha is checked before the
// credentials and burned either way.
// Endpoint: POST /auth/login
func (ac *AuthController) LoginHandler(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username and password are required"})
	}
	if req.CaptchaSessionKey == "" || req.CaptchaCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "captcha_session_key and captcha_code are required"})
	}

	tokens, user, err := ac.authService.LoginWithCaptcha(c.Request().Context(), auth.LoginParams{
		Username:          req.Username,
		Password:          req.Password,
		CaptchaSessionKey: req.CaptchaSessionKey,
		CaptchaCode:       req.CaptchaCode,
		IP:                c.RealIP(),
		UserAgent:         c.Request().UserAgent(),
	})
	if err != nil {
		if cerr, ok := logics.AsCaptchaError(err); ok {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"code":  cerr.Code,
				"error": cerr.Message,
			})
		}
		if auth.IsAuthError(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		}
		if auth.IsAuthError(err, auth.ErrAccountDisabled) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "account is disabled"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.ExpiresAt,
		"user":          user,
	})
}

// RefreshHandler rotates a refresh token and issues a new access token.
// Endpoint: POST /auth/refresh
func (ac *AuthController) RefreshHandler(c echo.Context) error {
	req := new(RefreshRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "refresh_token is required"})
	}

	tokens, user, err := ac.authService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		if auth.IsAuthError(err, auth.ErrTokenExpired) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "refresh token expired"})
		}
		if auth.IsAuthError(err, auth.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "token refresh failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.ExpiresAt,
		"user":          user,
	})
}

// LogoutHandler revokes the current access token and the given refresh token.
// Endpoint: POST /auth/logout
func (ac *AuthController) LogoutHandler(c echo.Context) error {
	req := new(LogoutRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	accessToken, err := middlewares.GetAccessToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	}

	if err := ac.authService.Logout(c.Request().Context(), accessToken, req.RefreshToken); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "logout failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
