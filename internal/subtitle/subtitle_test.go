package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/transcript"
)

func TestBuildCuesEndTimes(t *testing.T) {
	entries := []transcript.Entry{
		{StartMS: 1000, Text: "Hello"},
		{StartMS: 2500, Text: "World"},
	}
	cues, err := BuildCues(entries, DefaultTailDuration)
	if err != nil {
		t.Fatal(err)
	}
	if len(cues) != 2 {
		t.Fatalf("cues = %d, want 2", len(cues))
	}
	if cues[0].EndMS != 2500 {
		t.Fatalf("cue 1 end = %d, want next start 2500", cues[0].EndMS)
	}
	if cues[1].EndMS != 5500 {
		t.Fatalf("cue 2 end = %d, want start+3000 = 5500", cues[1].EndMS)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Errorf("cue %d index = %d", i, cue.Index)
		}
		if cue.EndMS <= cue.StartMS {
			t.Errorf("cue %d has non-positive duration", i)
		}
	}
}

func TestBuildCuesRejectsNonIncreasingStarts(t *testing.T) {
	entries := []transcript.Entry{
		{StartMS: 2000, Text: "a"},
		{StartMS: 2000, Text: "b"},
	}
	_, err := BuildCues(entries, DefaultTailDuration)
	if !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBuildCuesCustomTail(t *testing.T) {
	cues, err := BuildCues([]transcript.Entry{{StartMS: 100, Text: "x"}}, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if cues[0].EndMS != 5100 {
		t.Fatalf("end = %d, want 5100", cues[0].EndMS)
	}
}

func TestGenerateWritesSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.srt")
	entries := []transcript.Entry{
		{StartMS: 1000, Text: "Hello"},
		{StartMS: 2500, Text: "World"},
	}

	if err := Generate(path, entries, DefaultTailDuration, logging.NewNop()); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n" +
		"2\n00:00:02,500 --> 00:00:05,500\nWorld\n\n"
	if string(got) != want {
		t.Fatalf("srt mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.srt")
	entries := []transcript.Entry{{StartMS: 0, Text: "first run"}}

	if err := Generate(path, entries, DefaultTailDuration, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Second run with different entries must not rewrite the file.
	other := []transcript.Entry{{StartMS: 9000, Text: "second run"}}
	if err := Generate(path, other, DefaultTailDuration, logging.NewNop()); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("existing subtitle file was rewritten")
	}
}

func TestGenerateFailsOnMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "talk.srt")
	err := Generate(path, []transcript.Entry{{StartMS: 0, Text: "x"}}, DefaultTailDuration, logging.NewNop())
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[int64]string{
		0:        "00:00:00,000",
		1000:     "00:00:01,000",
		61500:    "00:01:01,500",
		3599999:  "00:59:59,999",
		3600000:  "01:00:00,000",
		45296789: "12:34:56,789",
	}
	for ms, want := range cases {
		if got := formatTimestamp(ms); got != want {
			t.Errorf("formatTimestamp(%d) = %q, want %q", ms, got, want)
		}
	}
}
