package mux

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subfetch/internal/logging"
	"subfetch/internal/services"
)

func writeTempFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "talk.mp4")
	srt := filepath.Join(dir, "talk.srt")
	if err := os.WriteFile(video, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(srt, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return video, srt
}

func TestEmbedArgumentContract(t *testing.T) {
	video, srt := writeTempFiles(t)

	var gotName string
	var gotArgs []string
	m := NewMuxer(logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, name string, args ...string) (string, error) {
		gotName = name
		gotArgs = args
		return "frame=1", nil
	})

	err := m.Embed(context.Background(), Request{
		VideoPath:    video,
		SubtitlePath: srt,
		OutputPath:   "output.mp4",
		Language:     "en",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("command = %q", gotName)
	}

	want := []string{
		"-y",
		"-i", video,
		"-i", srt,
		"-map", "0",
		"-map", "1",
		"-c:v", "copy",
		"-c:a", "copy",
		"-c:s", "mov_text",
		"-metadata:s:s:0", "language=eng",
		"-metadata:s:s:0", "title=English",
		"output.mp4",
	}
	if strings.Join(gotArgs, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("args mismatch:\n got %v\nwant %v", gotArgs, want)
	}
}

func TestEmbedUsesConfiguredCommand(t *testing.T) {
	video, srt := writeTempFiles(t)

	var gotName string
	m := NewMuxer(logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, name string, _ ...string) (string, error) {
		gotName = name
		return "", nil
	})

	req := Request{VideoPath: video, SubtitlePath: srt, OutputPath: "out.mp4", Command: "/opt/ffmpeg/bin/ffmpeg"}
	if err := m.Embed(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if gotName != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("command = %q", gotName)
	}
}

func TestEmbedSurfacesNonZeroExit(t *testing.T) {
	video, srt := writeTempFiles(t)

	m := NewMuxer(logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "Unknown encoder 'mov_text'", errors.New("exit status 1")
	})

	err := m.Embed(context.Background(), Request{VideoPath: video, SubtitlePath: srt, OutputPath: "out.mp4"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestEmbedRequiresExistingInputs(t *testing.T) {
	m := NewMuxer(logging.NewNop())
	m.WithCommandRunner(func(_ context.Context, _ string, _ ...string) (string, error) {
		t.Fatal("runner should not be invoked")
		return "", nil
	})

	err := m.Embed(context.Background(), Request{
		VideoPath:    filepath.Join(t.TempDir(), "missing.mp4"),
		SubtitlePath: filepath.Join(t.TempDir(), "missing.srt"),
		OutputPath:   "out.mp4",
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTail(t *testing.T) {
	long := "a\nb\nc\nd\ne\nf\ng"
	if got := tail(long); got != "c\nd\ne\nf\ng" {
		t.Fatalf("tail = %q", got)
	}
	if got := tail("short"); got != "short" {
		t.Fatalf("tail = %q", got)
	}
}
