package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/domain/lab"
	"labstore/internal/errs"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured store. Every failure matches
// lab.ErrStorageConnection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.database")
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(logCtx, cfg),
		TranslateError: true,
	}

	driver, err := NormalizeDriver(cfg.Driver)
	if err != nil {
		return nil, errs.Mark(err, lab.ErrStorageConnection)
	}

	var db *gorm.DB
	switch driver {
	case DriverSQLite:
		if err := ensureSQLiteDirectory(logCtx, cfg.DSN); err != nil {
			return nil, errs.Mark(errs.Wrap(err, "ensure sqlite directory"), lab.ErrStorageConnection)
		}
		db, err = gorm.Open(gormsqlite.Open(sqliteDSN(cfg)), gormCfg)
		if err != nil {
			return nil, errs.Mark(errs.WithStack(errs.Wrap(err, "open sqlite db")), lab.ErrStorageConnection)
		}
		if err := tuneSQLite(db, cfg); err != nil {
			closeQuietly(db)
			return nil, errs.Mark(err, lab.ErrStorageConnection)
		}
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, errs.Mark(errs.WithStack(errs.Wrap(err, "open postgres db")), lab.ErrStorageConnection)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, errs.Mark(errs.Wrap(err, "get sql db"), lab.ErrStorageConnection)
			}
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}

	logging.Info(logCtx, "database opened", slog.String("driver", driver), slog.String("dsn", redactDSN(driver, cfg.DSN)))
	return db, nil
}

func NormalizeDriver(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", raw)
	}
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}
	return nil
}

func closeQuietly(db *gorm.DB) {
	_ = Close(db)
}

// IsMemoryDSN reports whether dsn names a transient in-process SQLite store.
func IsMemoryDSN(dsn string) bool {
	candidate := strings.TrimSpace(dsn)
	return candidate == ":memory:" ||
		strings.HasPrefix(candidate, ":memory:?") ||
		strings.HasPrefix(candidate, "file::memory:") ||
		strings.Contains(candidate, "mode=memory")
}

func sqliteDSN(cfg config.DatabaseConfig) string {
	dsn := strings.TrimSpace(cfg.DSN)
	params := []string{"_pragma=foreign_keys(1)"}
	if cfg.BusyTimeout > 0 {
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func tuneSQLite(db *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	switch {
	case IsMemoryDSN(cfg.DSN):
		// Every new connection to :memory: is a separate empty database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return errs.Wrap(err, "enable foreign keys")
	}
	return nil
}

func ensureSQLiteDirectory(ctx context.Context, dsn string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	if IsMemoryDSN(dsn) {
		return nil
	}
	candidate := strings.TrimSpace(dsn)
	if candidate == "" {
		return nil
	}

	if strings.HasPrefix(strings.ToLower(candidate), "file:") {
		candidate = candidate[len("file:"):]
	}
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrapf(err, "create sqlite directory %q", dir)
	}

	logging.Debug(ctx, "sqlite directory ensured", slog.String("dir", dir))
	return nil
}

// redactDSN hides credentials of server DSNs in logs.
func redactDSN(driver, dsn string) string {
	if driver != DriverPostgres {
		return dsn
	}
	fields := strings.Fields(dsn)
	if len(fields) > 1 {
		for i, f := range fields {
			if strings.HasPrefix(strings.ToLower(f), "password=") {
				fields[i] = "password=***"
			}
		}
		return strings.Join(fields, " ")
	}
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		if scheme := strings.Index(dsn, "://"); scheme >= 0 && scheme < at {
			return dsn[:scheme+3] + "***" + dsn[at:]
		}
	}
	return dsn
}
