package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"subfetch/internal/config"
	"subfetch/internal/deps"
	"subfetch/internal/logging"
	"subfetch/internal/pipeline"
)

type runOptions struct {
	configPath string
	verbosity  int
	quality    string
	logFormat  string
}

func runPipeline(cmd *cobra.Command, url, dir string, opts runOptions) error {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if quality := strings.TrimSpace(opts.quality); quality != "" {
		cfg.Quality = strings.ToLower(quality)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := buildLogger(cfg, opts)
	if err != nil {
		return err
	}

	// ffmpeg absence is a hard failure; check before any network work.
	if err := deps.EnsureRequired(deps.CheckBinaries(deps.Requirements(cfg))); err != nil {
		return err
	}

	return pipeline.New(cfg, logger).Run(cmd.Context(), url, dir)
}

func buildLogger(cfg *config.Config, opts runOptions) (*slog.Logger, error) {
	level := cfg.Logging.Level
	switch {
	case opts.verbosity >= 2:
		level = "debug"
	case opts.verbosity == 1:
		level = "info"
	}

	format := cfg.Logging.Format
	if trimmed := strings.TrimSpace(opts.logFormat); trimmed != "" {
		format = strings.ToLower(trimmed)
	}

	return logging.New(logging.Options{Level: level, Format: format})
}
