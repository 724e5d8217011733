// Package download streams a resolved video URL to disk, reporting progress
// on an interactive terminal.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"subfetch/internal/logging"
	"subfetch/internal/services"
)

const chunkSize = 32 * 1024

// Downloader performs the streamed GET of the video file. The HTTP client is
// injected so callers control transport behavior; per the pipeline contract
// it carries no timeout and no retry policy.
type Downloader struct {
	client      *http.Client
	logger      *slog.Logger
	progressOut io.Writer
}

// New constructs a downloader. Progress is rendered only when stdout is an
// interactive terminal.
func New(client *http.Client, logger *slog.Logger) *Downloader {
	out := io.Writer(io.Discard)
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		out = os.Stdout
	}
	return &Downloader{
		client:      client,
		logger:      logging.NewComponentLogger(logger, "download"),
		progressOut: out,
	}
}

// WithProgressWriter redirects progress output; tests pass io.Discard.
func (d *Downloader) WithProgressWriter(w io.Writer) {
	if d != nil && w != nil {
		d.progressOut = w
	}
}

// Fetch downloads rawURL into dir under the basename of the URL path and
// returns that file name (not a path). An existing destination file
// short-circuits without any network request; contents are not verified.
// The server must advertise a content length, since progress reporting
// needs a known total.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "download", "parse url", rawURL, err)
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return "", services.Wrap(services.ErrNetwork, "download", "derive name",
			fmt.Sprintf("no file name in url path %q", parsed.Path), nil)
	}
	dest := filepath.Join(dir, name)

	if _, err := os.Stat(dest); err == nil {
		d.logger.Info("file already downloaded, skipping", logging.String("path", dest))
		return name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "download", "request", fmt.Sprintf("build request for %s", rawURL), err)
	}
	res, err := d.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "download", "get", fmt.Sprintf("GET %s failed", rawURL), err)
	}
	defer res.Body.Close()

	total := res.ContentLength
	if total < 0 {
		return "", services.Wrap(services.ErrNetwork, "download", "get",
			fmt.Sprintf("missing content length from %s", rawURL), nil)
	}

	file, err := os.Create(dest)
	if err != nil {
		return "", services.Wrap(services.ErrIO, "download", "create file", dest, err)
	}

	bar := d.newBar(total, name)
	start := time.Now()

	buf := make([]byte, chunkSize)
	var received int64
	for {
		n, readErr := res.Body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				file.Close()
				return "", services.Wrap(services.ErrIO, "download", "write chunk", dest, writeErr)
			}
			received += int64(n)
			// The progress counter never exceeds the advertised total even
			// if the server overshoots.
			_ = bar.Set64(min(received, total))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			file.Close()
			// A partial file is a valid resume point; an empty one is not,
			// and would make the existence short-circuit skip the retry.
			if received == 0 {
				_ = os.Remove(dest)
			}
			return "", services.Wrap(services.ErrNetwork, "download", "read chunk", rawURL, readErr)
		}
	}

	if err := file.Close(); err != nil {
		return "", services.Wrap(services.ErrIO, "download", "close file", dest, err)
	}
	_ = bar.Finish()

	d.logger.Info("downloaded",
		logging.String("url", rawURL),
		logging.String("path", dest),
		logging.String("size", humanize.Bytes(uint64(total))),
		logging.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
	return name, nil
}

func (d *Downloader) newBar(total int64, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(d.progressOut),
		progressbar.OptionSetDescription("downloading "+name),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)
}
