package loggers

import (
	"context"
	"errors"
	"time"

	"gallery-server/configs"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ZapGormLogger adapts the global zap logger to gorm's logger interface.
type ZapGormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
}

// NewZapGormLogger returns a gorm logger that writes through zap.
func NewZapGormLogger(level gormlogger.LogLevel, slowThreshold time.Duration, skipNotFound bool) *ZapGormLogger {
	return &ZapGormLogger{
		level:         level,
		slowThreshold: slowThreshold,
		skipNotFound:  skipNotFound,
	}
}

func (l *ZapGormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *ZapGormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		configs.Logger.Sugar().Infof(msg, args...)
	}
}

func (l *ZapGormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		configs.Logger.Sugar().Warnf(msg, args...)
	}
}

func (l *ZapGormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		configs.Logger.Sugar().Errorf(msg, args...)
	}
}

func (l *ZapGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		(!errors.Is(err, gorm.ErrRecordNotFound) || !l.skipNotFound):
		configs.Logger.Error("gorm query failed", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		configs.Logger.Warn("gorm slow query", fields...)
	case l.level >= gormlogger.Info:
		configs.Logger.Debug("gorm query", fields...)
	}
}
