/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"labstore/internal/bootstrap/config"
	"labstore/internal/bootstrap/logging"
	"labstore/internal/errs"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "labstore",
	Short:        "Trace organics lab data store",
	Long:         "Declares, materializes and inspects the trace organics laboratory schema (GORM, SQLite no-cgo or PostgreSQL).",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := logging.NewLogger(cmd.ErrOrStderr(), logFormat, logLevel)
		if err != nil {
			return errs.Wrap(err, "configure logger")
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logger := slog.New(slog.NewTextHandler(rootCmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	ctx = logging.WithLogger(ctx, logger)
	ctx = logging.WithAttrs(ctx,
		slog.String("app", "labstore"),
		slog.String("run_id", uuid.NewString()),
	)

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

// applyLogConfig rebuilds the command logger from the loaded config unless
// the level or format was given on the command line.
func applyLogConfig(cmd *cobra.Command, ctx context.Context, cfg config.LogConfig) context.Context {
	level, format := cfg.Level, cfg.Format
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}

	logger, err := logging.NewLogger(cmd.ErrOrStderr(), format, level)
	if err != nil {
		logging.Warn(ctx, "keeping flag logger", slog.Any("err", errs.Loggable(err)))
		return ctx
	}
	return logging.WithLogger(ctx, logger)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: ./configs/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
}
