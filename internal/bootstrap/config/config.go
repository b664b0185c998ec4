package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"labstore/internal/bootstrap/logging"
	"labstore/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// LogQueries echoes every statement through the application logger.
	LogQueries    bool          `mapstructure:"log_queries"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	BusyTimeout   time.Duration `mapstructure:"busy_timeout"`
}

const envPrefix = "LAB"

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithComponent(ctx, "bootstrap.config")

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err == nil {
		logging.Debug(logCtx, "loaded .env file")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("log_queries", cfg.Database.LogQueries),
	)
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	if strings.TrimSpace(c.Database.Driver) == "" {
		return errors.New("database.driver is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errs.Wrap(err, "log.level")
	}
	if c.Database.MaxOpenConns < 0 {
		return errors.New("database.max_open_conns must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "labstore")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	// Transient in-process store unless a file or server DSN is configured.
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.busy_timeout", 5*time.Second)
}
