package controllers

import (
	"encoding/base64"
	"net/http"

	"gallery-server/internal/logics"

	"github.com/labstack/echo/v4"
)

// CaptchaController serves challenge issuance, image delivery, and
// standalone verification.
type CaptchaController struct {
	captchaService *logics.CaptchaService
}

func NewCaptchaController(captchaService *logics.CaptchaService) *CaptchaController {
	return &CaptchaController{captchaService: captchaService}
}

// CaptchaVerifyRequest is the payload for standalone verification.
type CaptchaVerifyRequest struct {
	SessionKey string `json:"session_key" form:"session_key"`
	Code       string `json:"code" form:"code"`
}

// IssueHandler creates a fresh challenge.
// Endpoint: GET /captcha
func (cc *CaptchaController) IssueHandler(c echo.Context) error {
	challenge, err := cc.captchaService.IssueChallenge(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to issue captcha"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_key":  challenge.SessionKey,
		"image_base64": base64.StdEncoding.EncodeToString(challenge.Image),
		"image_url":    "/captcha/" + challenge.SessionKey + "/image",
		"created_at":   challenge.CreatedAt,
		"expires_at":   challenge.ExpiresAt,
	})
}

// ImageHandler streams the challenge PNG.
// Endpoint: GET /captcha/:key/image
func (cc *CaptchaController) ImageHandler(c echo.Context) error {
	sessionKey := c.Param("key")
	if sessionKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session key is required"})
	}

	img, err := cc.captchaService.Image(c.Request().Context(), sessionKey)
	if err != nil {
		if logics.IsCaptchaError(err, logics.ErrCaptchaInvalidSession) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown captcha session"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load captcha image"})
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", img)
}

// VerifyHandler checks and consumes a challenge in one shot.
// Endpoint: POST /captcha/verify
func (cc *CaptchaController) VerifyHandler(c echo.Context) error {
	req := new(CaptchaVerifyRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if req.SessionKey == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_key and code are required"})
	}

	if err := cc.captchaService.VerifyAndConsume(c.Request().Context(), req.SessionKey, req.Code); err != nil {
		if cerr, ok := logics.AsCaptchaError(err); ok {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"code":    cerr.Code,
				"error":   cerr.Message,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "captcha verification failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
