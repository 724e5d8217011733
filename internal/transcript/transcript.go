// Package transcript extracts timed sentences from a talk page's embedded
// transcript markup.
package transcript

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subfetch/internal/logging"
	"subfetch/internal/services"
)

// Selectors for the transcript markup. Each paragraph holds sentence spans
// whose first child carries the start time.
const (
	paragraphSelector = "li.supplement.transcript p"
	sentenceSelector  = "span.sentence"
	startAttr         = "data-start"
)

// Entry is one transcript sentence. Entries are produced in document order;
// ordering matters because cue end times are derived from the next entry's
// start time.
type Entry struct {
	StartMS int64
	Text    string
}

// Parse walks the document and returns the ordered transcript entries.
// Malformed markup (missing child node, missing or non-numeric start
// attribute) aborts with a malformed-input error naming the offending value.
func Parse(doc *goquery.Document, logger *slog.Logger) ([]Entry, error) {
	log := logging.NewComponentLogger(logger, "transcript")

	var entries []Entry
	var parseErr error

	doc.Find(paragraphSelector).EachWithBreak(func(_ int, paragraph *goquery.Selection) bool {
		paragraph.Find(sentenceSelector).EachWithBreak(func(_ int, sentence *goquery.Selection) bool {
			entry, err := parseSentence(sentence)
			if err != nil {
				parseErr = err
				return false
			}
			log.Debug("transcript entry",
				logging.Int64("start_ms", entry.StartMS),
				logging.String("text", entry.Text),
			)
			entries = append(entries, entry)
			return true
		})
		return parseErr == nil
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}

func parseSentence(sentence *goquery.Selection) (Entry, error) {
	span := sentence.Children().First()
	if span.Length() == 0 {
		return Entry{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse",
			fmt.Sprintf("sentence %q has no child element", strings.TrimSpace(sentence.Text())), nil)
	}

	raw, ok := span.Attr(startAttr)
	if !ok {
		return Entry{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse",
			fmt.Sprintf("sentence %q is missing the %s attribute", strings.TrimSpace(span.Text()), startAttr), nil)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Entry{}, services.Wrap(services.ErrMalformedInput, "transcript", "parse",
			fmt.Sprintf("%s value %q is not a number", startAttr, raw), err)
	}

	// Fractional seconds to whole milliseconds, truncating.
	return Entry{
		StartMS: int64(seconds * 1000),
		Text:    strings.TrimSpace(span.Text()),
	}, nil
}
