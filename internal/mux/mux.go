// Package mux embeds a subtitle file into a video container by shelling out
// to ffmpeg.
package mux

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"subfetch/internal/language"
	"subfetch/internal/logging"
	"subfetch/internal/services"
)

const defaultCommand = "ffmpeg"

// commandRunner executes the external tool and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) (string, error)

// Request describes the inputs for a mux invocation. VideoPath and
// SubtitlePath are resolved by ffmpeg against the working directory.
type Request struct {
	VideoPath    string
	SubtitlePath string
	OutputPath   string
	Language     string // ISO 639 code for the embedded subtitle track
	Command      string // ffmpeg binary; empty means "ffmpeg"
}

// Muxer combines a video file and an SRT file into one container, copying
// the video and audio streams and transcoding the subtitle to mov_text.
type Muxer struct {
	logger *slog.Logger
	run    commandRunner
}

// NewMuxer constructs a subtitle muxer.
func NewMuxer(logger *slog.Logger) *Muxer {
	return &Muxer{
		logger: logging.NewComponentLogger(logger, "mux"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (m *Muxer) WithCommandRunner(r commandRunner) {
	if m != nil && r != nil {
		m.run = r
	}
}

// Embed invokes ffmpeg once, synchronously, overwriting any prior output
// file. A non-zero exit is surfaced as an external tool error carrying the
// tool's output.
func (m *Muxer) Embed(ctx context.Context, req Request) error {
	if m == nil {
		return fmt.Errorf("muxer not initialized")
	}
	if strings.TrimSpace(req.VideoPath) == "" {
		return fmt.Errorf("video path is required")
	}
	if strings.TrimSpace(req.SubtitlePath) == "" {
		return fmt.Errorf("subtitle path is required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return fmt.Errorf("output path is required")
	}

	if _, err := os.Stat(req.VideoPath); err != nil {
		return services.Wrap(services.ErrNotFound, "mux", "embed", fmt.Sprintf("video file %q", req.VideoPath), err)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return services.Wrap(services.ErrNotFound, "mux", "embed", fmt.Sprintf("subtitle file %q", req.SubtitlePath), err)
	}

	command := strings.TrimSpace(req.Command)
	if command == "" {
		command = defaultCommand
	}
	args := buildArgs(req)

	m.logger.Debug("executing ffmpeg",
		logging.String("command", command),
		logging.String("args", strings.Join(args, " ")),
	)

	output, err := m.run(ctx, command, args...)
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		m.logger.Debug("ffmpeg output", logging.String("output", trimmed))
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "mux", "ffmpeg",
			fmt.Sprintf("embed %s into %s", req.SubtitlePath, req.VideoPath), err)
	}

	m.logger.Info("subtitle embedded",
		logging.String("video", req.VideoPath),
		logging.String("subtitle", req.SubtitlePath),
		logging.String("output", req.OutputPath),
	)
	return nil
}

// buildArgs constructs the fixed ffmpeg argument list: map both inputs 1:1,
// copy video and audio codecs, transcode the subtitle to the container's
// native text codec, and tag the subtitle stream's language.
func buildArgs(req Request) []string {
	lang := req.Language
	if strings.TrimSpace(lang) == "" {
		lang = "en"
	}
	return []string{
		"-y",
		"-i", req.VideoPath,
		"-i", req.SubtitlePath,
		"-map", "0",
		"-map", "1",
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language=" + language.ToISO3(lang),
		"-metadata:s:s:0", "title=" + language.DisplayName(lang),
		req.OutputPath,
	}
}

// defaultCommandRunner executes ffmpeg and captures stdout and stderr
// together; on failure the output tail rides along in the error.
func defaultCommandRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%w: %s", err, tail(string(output)))
	}
	return string(output), nil
}

// tail keeps errors readable when ffmpeg dumps its full configuration
// banner before failing.
func tail(output string) string {
	trimmed := strings.TrimSpace(output)
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= 5 {
		return trimmed
	}
	return strings.Join(lines[len(lines)-5:], "\n")
}
