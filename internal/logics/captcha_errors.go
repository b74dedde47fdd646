package logics

import (
	"errors"
	"fmt"
)

// Captcha failure reason codes. All are client-facing and terminal for the
// challenge token except wrong_code, which leaves the challenge active.
const (
	ErrCaptchaInvalidSession = "invalid_session"
	ErrCaptchaExpired        = "captcha_expired"
	ErrCaptchaAlreadyUsed    = "captcha_already_used"
	ErrCaptchaWrongCode      = "captcha_wrong_code"
)

// CaptchaError is a client-facing captcha rejection with a machine reason
// code. Server-side faults (storage, rendering) are plain wrapped errors,
// never CaptchaError.
type CaptchaError struct {
	Code    string
	Message string
	Err     error
}

func (e *CaptchaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CaptchaError) Unwrap() error {
	return e.Err
}

func NewCaptchaError(code, message string) *CaptchaError {
	return &CaptchaError{Code: code, Message: message}
}

// IsCaptchaError reports whether err carries the given captcha reason code.
func IsCaptchaError(err error, code string) bool {
	var cerr *CaptchaError
	if errors.As(err, &cerr) {
		return cerr.Code == code
	}
	return false
}

// AsCaptchaError extracts a CaptchaError from err if one is present.
func AsCaptchaError(err error) (*CaptchaError, bool) {
	var cerr *CaptchaError
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}
