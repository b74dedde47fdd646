package controllers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gallery-server/configs"
	"gallery-server/internal/logics"
	"gallery-server/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newCaptchaTestController(t *testing.T) (*CaptchaController, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Captcha{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := logics.NewCaptchaService(db, rdb, zap.NewNop(), configs.CaptchaConfig{})
	return NewCaptchaController(svc), db
}

func TestCaptchaIssueAndImage(t *testing.T) {
	e := echo.New()
	ctrl, _ := newCaptchaTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/captcha", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, ctrl.IssueHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionKey  string `json:"session_key"`
		ImageBase64 string `json:"image_base64"`
		ImageURL    string `json:"image_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.SessionKey, 64)
	assert.Equal(t, "/captcha/"+body.SessionKey+"/image", body.ImageURL)

	inlineImage, err := base64.StdEncoding.DecodeString(body.ImageBase64)
	require.NoError(t, err)
	assert.NotEmpty(t, inlineImage)

	// The image endpoint serves the same PNG bytes.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/captcha/:key/image")
	c.SetParamNames("key")
	c.SetParamValues(body.SessionKey)
	require.NoError(t, ctrl.ImageHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, inlineImage, rec.Body.Bytes())
}

func TestCaptchaImageUnknownSession(t *testing.T) {
	e := echo.New()
	ctrl, _ := newCaptchaTestController(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/captcha/:key/image")
	c.SetParamNames("key")
	c.SetParamValues("does-not-exist")
	require.NoError(t, ctrl.ImageHandler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCaptchaVerifyHandler(t *testing.T) {
	e := echo.New()
	ctrl, db := newCaptchaTestController(t)

	require.NoError(t, db.Create(&models.Captcha{
		SessionKey: "verify-key",
		Code:       "AB3D",
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}).Error)

	post := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/captcha/verify", strings.NewReader(payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		require.NoError(t, ctrl.VerifyHandler(e.NewContext(req, rec)))
		return rec
	}

	// Wrong code leaves the challenge intact.
	rec := post(`{"session_key":"verify-key","code":"WXYZ"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), logics.ErrCaptchaWrongCode)

	// Correct code consumes it.
	rec = post(`{"session_key":"verify-key","code":"ab3d"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The consumed challenge cannot be verified again.
	rec = post(`{"session_key":"verify-key","code":"AB3D"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), logics.ErrCaptchaAlreadyUsed)

	// Missing fields are rejected up front.
	rec = post(`{"session_key":"verify-key"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
