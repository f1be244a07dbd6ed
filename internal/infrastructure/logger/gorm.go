package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormConfig controls which statements reach the log
type GormConfig struct {
	// Level is one of silent, error, warn, info or debug
	Level string
	// SlowThreshold marks statements logged at warn; zero uses 200ms
	SlowThreshold time.Duration
	// LogNotFound also reports gorm.ErrRecordNotFound as an error
	LogNotFound bool
}

// GormLogger sends gorm statements to zap, tagged with the request and
// tenant found on the statement context
type GormLogger struct {
	zl          *zap.Logger
	level       gormlogger.LogLevel
	slow        time.Duration
	logNotFound bool
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger builds a gorm logger on top of zl
func NewGormLogger(zl *zap.Logger, cfg GormConfig) *GormLogger {
	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = defaultSlowThreshold
	}
	return &GormLogger{
		zl:          zl,
		level:       MapGormLogLevel(cfg.Level),
		slow:        slow,
		logNotFound: cfg.LogNotFound,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.withContext(ctx).Sugar().Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.withContext(ctx).Sugar().Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.withContext(ctx).Sugar().Errorf(msg, args...)
	}
}

// Trace logs one executed statement. Failures go to error, statements slower
// than the threshold to warn and the rest to debug when the level is info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil:
		if l.level < gormlogger.Error || (!l.logNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		l.withContext(ctx).Error("Query failed", append(statementFields(fc, elapsed), zap.Error(err))...)
	case elapsed > l.slow:
		if l.level < gormlogger.Warn {
			return
		}
		l.withContext(ctx).Warn("Slow query",
			append(statementFields(fc, elapsed), zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		l.withContext(ctx).Debug("Query", statementFields(fc, elapsed)...)
	}
}

func (l *GormLogger) withContext(ctx context.Context) *zap.Logger {
	zl := l.zl
	if id := GetRequestID(ctx); id != "" {
		zl = zl.With(zap.String("request_id", id))
	}
	if tenant := GetTenantID(ctx); tenant != "" {
		zl = zl.With(zap.String("tenant_id", tenant))
	}
	return zl
}

func statementFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	return []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
}

// MapGormLogLevel converts a configured level name. Unknown names map to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
