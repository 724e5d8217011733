package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() {
	c.UserAgent = strings.TrimSpace(c.UserAgent)
	if value, ok := os.LookupEnv("SUBFETCH_USER_AGENT"); ok && strings.TrimSpace(value) != "" {
		c.UserAgent = strings.TrimSpace(value)
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}

	c.Quality = strings.ToLower(strings.TrimSpace(c.Quality))
	if c.Quality == "" {
		c.Quality = defaultQuality
	}

	c.OutputFile = strings.TrimSpace(c.OutputFile)
	if c.OutputFile == "" {
		c.OutputFile = defaultOutputFile
	}

	c.SubtitleLanguage = strings.ToLower(strings.TrimSpace(c.SubtitleLanguage))
	if c.SubtitleLanguage == "" {
		c.SubtitleLanguage = defaultSubtitleLanguage
	}

	c.FFmpegCommand = strings.TrimSpace(c.FFmpegCommand)
	if value, ok := os.LookupEnv("SUBFETCH_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpegCommand = strings.TrimSpace(value)
	}
	if c.FFmpegCommand == "" {
		c.FFmpegCommand = defaultFFmpegCommand
	}

	if c.TailCueSeconds == 0 {
		c.TailCueSeconds = defaultTailCueSeconds
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("SUBFETCH_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
