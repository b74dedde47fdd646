package configs

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Tconfigs struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	S3       S3Config       `yaml:"s3"`
	Service  ServiceConfig  `yaml:"service"`
	Logs     LogsConfig     `yaml:"logs"`
	Secrets  Secrets        `yaml:"secrets"`
	Authn    AuthnConfig    `yaml:"authn"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
}

var Configs Tconfigs

func Init(ConfigPath *string) {
	var configPath string
	if ConfigPath == nil || *ConfigPath == "" {
		// Default config locations:
		// 1. ./configs.yaml (relative to working directory)
		// 2. configs.yaml next to the executable
		if _, err := os.Stat("./configs.yaml"); err == nil {
			configPath = "./configs.yaml"
		} else if execPath, err := os.Executable(); err == nil {
			configPath = filepath.Join(filepath.Dir(execPath), "configs.yaml")
		} else {
			configPath = "./configs.yaml"
		}
	} else {
		configPath = *ConfigPath
	}

	load(configPath)
	applyDefaults()
	InitLogger()
}

func load(ConfigsPath string) {
	yamlFile, err := os.ReadFile(ConfigsPath)
	if err != nil {
		// Logger is not initialized yet at this point
		os.Stderr.WriteString("Error reading config file: " + err.Error() + "\n")
		os.Exit(1)
	}

	err = yaml.Unmarshal(yamlFile, &Configs)
	if err != nil {
		if Logger == nil {
			os.Stderr.WriteString("Error parsing config file: " + err.Error() + "\n")
		} else {
			Logger.Error("Error parsing config file", zap.Error(err))
		}
		os.Exit(1)
	}
}

// applyDefaults fills in the captcha policy constants when the config file
// leaves them out.
func applyDefaults() {
	if Configs.Captcha.TTL == 0 {
		Configs.Captcha.TTL = 5 * time.Minute
	}
	if Configs.Captcha.CodeLength == 0 {
		Configs.Captcha.CodeLength = 4
	}
	if Configs.Captcha.ImageWidth == 0 {
		Configs.Captcha.ImageWidth = 120
	}
	if Configs.Captcha.ImageHeight == 0 {
		Configs.Captcha.ImageHeight = 50
	}
}
