package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"gallery-server/internal/auth"

	"github.com/labstack/echo/v4"
)

const (
	ContextKeyUserID      = "user_id"
	ContextKeyAccessToken = "access_token"
)

// JWT returns a middleware that validates the Bearer access token and
// rejects tokens on the revocation list.
func JWT(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			}

			tokenStr, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenStr == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization header"})
			}

			claims, err := auth.ParseAccessToken(tokenStr)
			if err != nil {
				if auth.IsAuthError(err, auth.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token expired"})
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			revoked, err := tokens.IsAccessTokenRevoked(c.Request().Context(), tokenStr)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to check token state"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token revoked"})
			}

			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token subject"})
			}

			c.Set(ContextKeyUserID, sub)
			c.Set(ContextKeyAccessToken, tokenStr)
			return next(c)
		}
	}
}

// GetUserID returns the authenticated user ID stored by the JWT middleware.
func GetUserID(c echo.Context) (string, error) {
	id, ok := c.Get(ContextKeyUserID).(string)
	if !ok || id == "" {
		return "", errors.New("no authenticated user in context")
	}
	return id, nil
}

// GetAccessToken returns the raw bearer token stored by the JWT middleware.
func GetAccessToken(c echo.Context) (string, error) {
	token, ok := c.Get(ContextKeyAccessToken).(string)
	if !ok || token == "" {
		return "", errors.New("no access token in context")
	}
	return token, nil
}
