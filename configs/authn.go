package configs

import "time"

type AuthnConfig struct {
	SessionExpireMin      int `yaml:"session_expire_min"`
	AccessJwtExpireMin    int `yaml:"access_jwt_expire_min"`
	RefreshTokenExpireMin int `yaml:"refresh_token_expire_min"`
}

// CaptchaConfig holds the captcha policy knobs. TTL and code length fall back
// to 5 minutes / 4 characters when the config file omits them.
type CaptchaConfig struct {
	TTL         time.Duration `yaml:"ttl"`
	CodeLength  int           `yaml:"code_length"`
	ImageWidth  int           `yaml:"image_width"`
	ImageHeight int           `yaml:"image_height"`
}
