// Package page fetches the talk page and resolves the video download link
// out of its markup.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"subfetch/internal/logging"
	"subfetch/internal/services"
)

// ErrNoDownloadLink reports that no anchor on the page matched the requested
// quality tier.
var ErrNoDownloadLink = errors.New("no download link matched")

// downloadLinkSelector matches the anchors inside the page's download list.
const downloadLinkSelector = "li.download ul li a"

// Quality selects which download link to resolve.
type Quality int

const (
	QualityHD Quality = iota
	QualitySD
)

// ParseQuality maps a config/flag value to a Quality.
func ParseQuality(value string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hd":
		return QualityHD, nil
	case "sd":
		return QualitySD, nil
	default:
		return QualityHD, fmt.Errorf("unknown quality %q", value)
	}
}

func (q Quality) String() string {
	if q == QualitySD {
		return "sd"
	}
	return "hd"
}

// Marker is the substring that identifies a link's tier in its label text.
func (q Quality) Marker() string {
	if q == QualitySD {
		return "SD"
	}
	return "HD"
}

// Fetch retrieves the talk page and parses it into a queryable document.
// The request carries the configured user agent; no timeout is applied.
func Fetch(ctx context.Context, client *http.Client, rawURL, userAgent string, logger *slog.Logger) (*goquery.Document, error) {
	log := logging.NewComponentLogger(logger, "page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "page", "request", fmt.Sprintf("build request for %s", rawURL), err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "page", "fetch", fmt.Sprintf("GET %s", rawURL), err)
	}
	defer res.Body.Close()

	log.Info("page fetched",
		logging.String("url", rawURL),
		logging.Int("status", res.StatusCode),
		logging.String("proto", res.Proto),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, services.Wrap(services.ErrNetwork, "page", "fetch", fmt.Sprintf("GET %s returned status %d", rawURL, res.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, "page", "parse", fmt.Sprintf("parse body of %s", rawURL), err)
	}
	return doc, nil
}

// ResolveDownloadLink scans the document's download list in document order
// and returns the href of the first anchor whose label contains the tier
// marker. A document with no matching anchor yields ErrNoDownloadLink.
func ResolveDownloadLink(doc *goquery.Document, quality Quality, logger *slog.Logger) (string, error) {
	log := logging.NewComponentLogger(logger, "page")

	var link string
	doc.Find(downloadLinkSelector).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		if !strings.Contains(anchor.Text(), quality.Marker()) {
			return true
		}
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		link = href
		log.Info("download link resolved",
			logging.String("quality", quality.String()),
			logging.String("href", link),
		)
		return false
	})

	if link == "" {
		return "", fmt.Errorf("%w for quality %s", ErrNoDownloadLink, quality)
	}
	return link, nil
}
