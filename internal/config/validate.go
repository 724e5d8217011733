package config

import (
	"fmt"
	"strings"
)

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	switch c.Quality {
	case "hd", "sd":
	default:
		return fmt.Errorf("quality: must be \"hd\" or \"sd\", got %q", c.Quality)
	}

	if strings.ContainsRune(c.OutputFile, '/') {
		return fmt.Errorf("output_file: must be a bare file name, got %q", c.OutputFile)
	}

	// Zero never reaches validation: normalize maps it back to the default.
	if c.TailCueSeconds < 0 {
		return fmt.Errorf("tail_cue_seconds: must not be negative, got %d", c.TailCueSeconds)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: must be \"console\" or \"json\", got %q", c.Logging.Format)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	return nil
}
