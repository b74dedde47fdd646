package configs

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide structured logger, available after Init.
var Logger *zap.Logger

// InitLogger builds the zap logger from the logs section of the config.
func InitLogger() {
	level := zap.NewAtomicLevel()
	switch Configs.Logs.LogLevel {
	case "DEBUG", "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "WARN", "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "ERROR", "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "log.level"
	encoderConfig.MessageKey = "message"
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	var writeSyncer zapcore.WriteSyncer
	if Configs.Logs.StdoutOnly || Configs.Logs.LogPath == "" {
		writeSyncer = zapcore.AddSync(os.Stdout)
	} else {
		file, err := os.OpenFile(Configs.Logs.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			os.Stderr.WriteString("Error opening log file, falling back to stdout: " + err.Error() + "\n")
			writeSyncer = zapcore.AddSync(os.Stdout)
		} else {
			writeSyncer = zapcore.AddSync(file)
		}
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	Logger = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}
