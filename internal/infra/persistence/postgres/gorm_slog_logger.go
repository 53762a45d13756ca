package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shop/config"
	deliverycontext "shop/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// gormSlogLogger routes GORM output to slog. Query traces use the request
// logger from ctx so they carry the request id.
type gormSlogLogger struct {
	base      *slog.Logger
	level     logger.LogLevel
	slowQuery time.Duration
}

func newGormSlogLogger(base *slog.Logger, cfg *config.Config) logger.Interface {
	l := &gormSlogLogger{base: base, level: logger.Warn, slowQuery: defaultSlowQuery}
	if cfg == nil {
		return l
	}
	if cfg.Env.Debug {
		l.level = logger.Info
	}
	if cfg.Database != nil && cfg.Database.SlowQueryThreshold > 0 {
		l.slowQuery = cfg.Database.SlowQueryThreshold
	}

	return l
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) printf(ctx context.Context, need logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.base == nil || l.level < need {
		return
	}
	l.base.LogAttrs(ctx, level, "gorm: "+fmt.Sprintf(msg, args...))
}

// Trace logs failed queries as errors and slow ones as warnings. Other queries
// are only logged at debug level when GORM runs in Info mode.
func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.base == nil || l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		level slog.Level
		msg   string
		extra slog.Attr
	)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		level, msg, extra = slog.LevelError, "Query failed", slog.String("error", err.Error())
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= logger.Warn:
		level, msg, extra = slog.LevelWarn, "Slow query", slog.Duration("threshold", l.slowQuery)
	case l.level >= logger.Info:
		level, msg = slog.LevelDebug, "Query"
	default:
		return
	}

	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("table", tableOf(sql)),
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if extra.Key != "" {
		attrs = append(attrs, extra)
	}

	deliverycontext.GetLoggerOrDefault(ctx, l.base).LogAttrs(ctx, level, msg, attrs...)
}

// tableOf returns the table a generated statement reads or writes, or "".
func tableOf(sql string) string {
	for _, kw := range []string{" FROM ", "INSERT INTO ", "UPDATE "} {
		_, rest, found := strings.Cut(sql, kw)
		if !found {
			continue
		}
		rest = strings.TrimLeft(rest, " ")
		if end := strings.IndexAny(rest, " (,"); end >= 0 {
			rest = rest[:end]
		}

		return strings.Trim(rest, "\"`")
	}

	return ""
}
