// Package subtitle turns transcript entries into a SubRip file.
package subtitle

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/transcript"
)

// DefaultTailDuration bounds the final cue, which has no following entry.
const DefaultTailDuration = 3 * time.Second

// Cue is one timed subtitle entry.
type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Text    string
}

// BuildCues derives one cue per transcript entry. Each cue ends where the
// next entry starts; the final cue ends tail after its own start. A cue whose
// end would not be strictly after its start (non-increasing input timestamps)
// is a malformed-input error.
func BuildCues(entries []transcript.Entry, tail time.Duration) ([]Cue, error) {
	if tail <= 0 {
		tail = DefaultTailDuration
	}

	cues := make([]Cue, 0, len(entries))
	for i, entry := range entries {
		end := entry.StartMS + tail.Milliseconds()
		if i+1 < len(entries) {
			end = entries[i+1].StartMS
		}
		if end <= entry.StartMS {
			return nil, services.Wrap(services.ErrMalformedInput, "subtitle", "build cues",
				fmt.Sprintf("cue %d has non-positive duration (start %dms, end %dms)", i+1, entry.StartMS, end), nil)
		}
		cues = append(cues, Cue{
			Index:   i + 1,
			StartMS: entry.StartMS,
			EndMS:   end,
			Text:    entry.Text,
		})
	}
	return cues, nil
}

// WriteSRT serializes cues to path in SubRip format: sequential numbered
// blocks with comma-millisecond timestamp ranges, separated by blank lines.
func WriteSRT(path string, cues []Cue) error {
	var b strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			cue.Index, formatTimestamp(cue.StartMS), formatTimestamp(cue.EndMS), cue.Text)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return services.Wrap(services.ErrIO, "subtitle", "write", path, err)
	}
	return nil
}

// Generate builds cues from entries and writes them to path. If a file
// already exists at path the call is a no-op; contents are not verified,
// matching the downloader's resume-by-existence behavior.
func Generate(path string, entries []transcript.Entry, tail time.Duration, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "subtitle")

	if _, err := os.Stat(path); err == nil {
		log.Info("subtitle file already exists, skipping generation", logging.String("path", path))
		return nil
	}

	cues, err := BuildCues(entries, tail)
	if err != nil {
		return err
	}
	if err := WriteSRT(path, cues); err != nil {
		return err
	}

	log.Info("subtitle file generated",
		logging.String("path", path),
		logging.Int("cues", len(cues)),
	)
	return nil
}

// formatTimestamp renders milliseconds as the SubRip HH:MM:SS,mmm form.
func formatTimestamp(ms int64) string {
	millis := ms % 1000
	seconds := ms / 1000 % 60
	minutes := ms / 60000 % 60
	hours := ms / 3600000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
