package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/gofrs/flock"

	"subfetch/internal/config"
	"subfetch/internal/logging"
	"subfetch/internal/mux"
	"subfetch/internal/page"
)

const talkPageHTML = `<html><body>
<li class="download">
  <ul>
    <li><a href="/files/talk_480p.mp4">Video (SD)</a></li>
    <li><a href="/files/talk_1080p.mp4">Video (HD)</a></li>
  </ul>
</li>
<li class="supplement transcript">
  <p>
    <span class="sentence"><span data-start="1.0">Hello</span></span>
    <span class="sentence"><span data-start="2.5">World</span></span>
  </p>
</li>
</body></html>`

type fakeMux struct {
	calls atomic.Int64
	last  []string
}

func newTestServer(t *testing.T, videoRequests *atomic.Int64) *httptest.Server {
	t.Helper()
	video := []byte("not really an mp4, but bytes enough")
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/talks/greetings":
			_, _ = w.Write([]byte(talkPageHTML))
		case "/files/talk_1080p.mp4":
			if videoRequests != nil {
				videoRequests.Add(1)
			}
			w.Header().Set("Content-Length", strconv.Itoa(len(video)))
			_, _ = w.Write(video)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestRunner(t *testing.T, srv *httptest.Server, fake *fakeMux) *Runner {
	t.Helper()
	cfg := config.Default()
	runner := New(&cfg, logging.NewNop())
	runner.WithHTTPClient(srv.Client())
	runner.Downloader().WithProgressWriter(io.Discard)

	m := mux.NewMuxer(logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
		fake.calls.Add(1)
		fake.last = args
		return "", nil
	})
	runner.WithMuxer(m)
	return runner
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestRunEndToEnd(t *testing.T) {
	var videoRequests atomic.Int64
	srv := newTestServer(t, &videoRequests)
	defer srv.Close()

	dir := t.TempDir()
	chdir(t, dir)

	fake := &fakeMux{}
	runner := newTestRunner(t, srv, fake)

	if err := runner.Run(context.Background(), srv.URL+"/talks/greetings", dir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "talk_1080p.mp4")); err != nil {
		t.Fatalf("video missing: %v", err)
	}

	srt, err := os.ReadFile(filepath.Join(dir, "talk_1080p.srt"))
	if err != nil {
		t.Fatalf("subtitle missing: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n" +
		"2\n00:00:02,500 --> 00:00:05,500\nWorld\n\n"
	if string(srt) != want {
		t.Fatalf("srt mismatch:\n got %q\nwant %q", srt, want)
	}

	if fake.calls.Load() != 1 {
		t.Fatalf("mux invoked %d times", fake.calls.Load())
	}
	// The muxer receives bare names resolved against the working directory.
	assertContains(t, fake.last, "talk_1080p.mp4")
	assertContains(t, fake.last, "talk_1080p.srt")
	assertContains(t, fake.last, "output.mp4")
}

func TestRunResumesWithoutRedownloading(t *testing.T) {
	var videoRequests atomic.Int64
	srv := newTestServer(t, &videoRequests)
	defer srv.Close()

	dir := t.TempDir()
	chdir(t, dir)

	fake := &fakeMux{}
	runner := newTestRunner(t, srv, fake)

	if err := runner.Run(context.Background(), srv.URL+"/talks/greetings", dir); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(filepath.Join(dir, "talk_1080p.srt"))
	if err != nil {
		t.Fatal(err)
	}

	if err := runner.Run(context.Background(), srv.URL+"/talks/greetings", dir); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(dir, "talk_1080p.srt"))
	if err != nil {
		t.Fatal(err)
	}

	if videoRequests.Load() != 1 {
		t.Fatalf("video requested %d times, want 1", videoRequests.Load())
	}
	if string(first) != string(second) {
		t.Fatal("subtitle file changed on rerun")
	}
	if fake.calls.Load() != 2 {
		t.Fatalf("mux invoked %d times, want 2", fake.calls.Load())
	}
}

func TestRunFailsWhenNoLinkMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><li class="download"><ul><li><a href="/x">Audio</a></li></ul></li></body></html>`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	runner := newTestRunner(t, srv, &fakeMux{})

	err := runner.Run(context.Background(), srv.URL, dir)
	if !errors.Is(err, page.ErrNoDownloadLink) {
		t.Fatalf("expected ErrNoDownloadLink, got %v", err)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	dir := t.TempDir()
	held := flock.New(filepath.Join(dir, lockFileName))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock failed: %v", err)
	}
	defer func() { _ = held.Unlock() }()

	runner := newTestRunner(t, srv, &fakeMux{})
	if err := runner.Run(context.Background(), srv.URL+"/talks/greetings", dir); err == nil {
		t.Fatal("expected lock contention error")
	}
}

func TestSubtitleName(t *testing.T) {
	cases := map[string]string{
		"talk_1080p.mp4": "talk_1080p.srt",
		"talk.part1.mp4": "talk.srt",
		"noextension":    "noextension.srt",
		"archive.tar.gz": "archive.srt",
	}
	for input, want := range cases {
		if got := subtitleName(input); got != want {
			t.Errorf("subtitleName(%q) = %q, want %q", input, got, want)
		}
	}
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	for _, arg := range args {
		if arg == want {
			return
		}
	}
	t.Fatalf("args %v missing %q", args, want)
}
