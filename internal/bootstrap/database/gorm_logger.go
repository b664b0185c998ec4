package database

import (
	"context"
	"log/slog"

	gormlogger "gorm.io/gorm/logger"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/logging"
)

// newGormLogger routes GORM output into the context logger. With
// LogQueries every statement is echoed; otherwise only slow queries and
// errors are reported.
func newGormLogger(ctx context.Context, cfg config.DatabaseConfig) gormlogger.Interface {
	attrs := logging.Attrs(ctx)
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, a)
	}
	base := logging.Logger(ctx).With(args...)

	level := gormlogger.Warn
	recordLevel := slog.LevelWarn
	if cfg.LogQueries {
		level = gormlogger.Info
		recordLevel = slog.LevelInfo
	}

	return gormlogger.New(
		slog.NewLogLogger(base.Handler(), recordLevel),
		gormlogger.Config{
			SlowThreshold:             cfg.SlowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
