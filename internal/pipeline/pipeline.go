package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subfetch/internal/config"
	"subfetch/internal/download"
	"subfetch/internal/logging"
	"subfetch/internal/mux"
	"subfetch/internal/page"
	"subfetch/internal/services"
	"subfetch/internal/subtitle"
	"subfetch/internal/transcript"
)

const lockFileName = ".subfetch.lock"

// Runner drives the pipeline: fetch page, resolve link, download video,
// parse transcript, generate subtitles, mux. Strictly sequential; the first
// unrecoverable error aborts the run and leaves already-written files on
// disk, which the existence short-circuits turn into resume-on-rerun.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	client     *http.Client
	downloader *download.Downloader
	muxer      *mux.Muxer
}

// New constructs a pipeline runner. The HTTP client deliberately carries no
// timeout: a large video download has no sensible upper bound and the run is
// interactive.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	client := &http.Client{}
	return &Runner{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		downloader: download.New(client, logger),
		muxer:      mux.NewMuxer(logger),
	}
}

// WithHTTPClient replaces the HTTP client; the downloader is rebuilt so both
// requests share the transport. Used by tests.
func (r *Runner) WithHTTPClient(client *http.Client) {
	if r == nil || client == nil {
		return
	}
	r.client = client
	r.downloader = download.New(client, r.logger)
}

// WithMuxer replaces the mux invoker. Used by tests.
func (r *Runner) WithMuxer(m *mux.Muxer) {
	if r != nil && m != nil {
		r.muxer = m
	}
}

// Downloader exposes the runner's downloader for option tweaks.
func (r *Runner) Downloader() *download.Downloader {
	return r.downloader
}

// Run executes one pipeline pass for the given page URL and output
// directory.
func (r *Runner) Run(ctx context.Context, rawURL, dir string) error {
	// The run logger carries the run ID; components attach their own names.
	runLog := r.logger
	if runLog == nil {
		runLog = logging.NewNop()
	}
	runLog = runLog.With(logging.String("run_id", uuid.NewString()))
	log := logging.NewComponentLogger(runLog, "pipeline")

	quality, err := page.ParseQuality(r.cfg.Quality)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "quality", err.Error(), nil)
	}

	// One run per output directory at a time; two concurrent runs would
	// race on the same destination files.
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrIO, "pipeline", "lock", dir, err)
	}
	if !locked {
		return services.Wrap(services.ErrIO, "pipeline", "lock",
			fmt.Sprintf("another subfetch run is active in %s", dir), nil)
	}
	defer func() { _ = lock.Unlock() }()

	log.Info("starting up", logging.String("url", rawURL), logging.String("dir", dir))

	doc, err := page.Fetch(ctx, r.client, rawURL, r.cfg.UserAgent, runLog)
	if err != nil {
		return err
	}

	link, err := page.ResolveDownloadLink(doc, quality, runLog)
	if err != nil {
		return err
	}
	link, err = absoluteURL(rawURL, link)
	if err != nil {
		return err
	}

	videoName, err := r.downloader.Fetch(ctx, link, dir)
	if err != nil {
		return err
	}

	srtName := subtitleName(videoName)

	entries, err := transcript.Parse(doc, runLog)
	if err != nil {
		return err
	}

	if err := subtitle.Generate(filepath.Join(dir, srtName), entries, r.cfg.TailDuration(), runLog); err != nil {
		return err
	}

	// ffmpeg resolves the input names against the working directory, and the
	// muxed output lands there too, regardless of the download directory.
	err = r.muxer.Embed(ctx, mux.Request{
		VideoPath:    videoName,
		SubtitlePath: srtName,
		OutputPath:   r.cfg.OutputFile,
		Language:     r.cfg.SubtitleLanguage,
		Command:      r.cfg.FFmpegCommand,
	})
	if err != nil {
		return err
	}

	log.Info("done", logging.String("output", r.cfg.OutputFile))
	return nil
}

// subtitleName derives the sidecar name from the video file name: everything
// before the first dot, plus ".srt".
func subtitleName(videoName string) string {
	return strings.SplitN(videoName, ".", 2)[0] + ".srt"
}

// absoluteURL resolves a possibly relative download href against the page
// URL.
func absoluteURL(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "pipeline", "resolve link", pageURL, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", services.Wrap(services.ErrNetwork, "pipeline", "resolve link", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
