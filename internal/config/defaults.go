package config

const (
	// The original tool spoofs a desktop Chrome identity; some talk hosts
	// serve a reduced page to unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/101.0.4951.64 Safari/537.36"

	defaultQuality          = "hd"
	defaultOutputFile       = "output.mp4"
	defaultSubtitleLanguage = "en"
	defaultFFmpegCommand    = "ffmpeg"
	defaultTailCueSeconds   = 3
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		UserAgent:        defaultUserAgent,
		Quality:          defaultQuality,
		OutputFile:       defaultOutputFile,
		SubtitleLanguage: defaultSubtitleLanguage,
		FFmpegCommand:    defaultFFmpegCommand,
		TailCueSeconds:   defaultTailCueSeconds,
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
