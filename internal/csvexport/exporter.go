// Package csvexport renders normalized news items as CSV text.
package csvexport

import (
	"net/url"
	"strings"
	"time"

	"github.com/avolkhov/worldnews-proxy/internal/models"
)

// The source column is always empty: the normalized item carries no source
// field. The column is kept so exported sheets line up with the upstream
// dump format.
var header = []string{"title", "url", "hostname", "publish_date", "source", "category", "image"}

// Export renders items with a fixed header row. fallbackCategory fills the
// category column for items without one. Missing or malformed fields never
// fail the export; they render as empty strings. The output always ends
// with a trailing newline.
func Export(items []models.NewsItem, fallbackCategory string) string {
	var b strings.Builder
	writeRow(&b, header)
	for _, it := range items {
		category := it.Category
		if category == "" {
			category = fallbackCategory
		}
		writeRow(&b, []string{
			it.Title,
			it.URL,
			hostname(it.URL),
			it.PublishDate,
			"",
			category,
			it.Image,
		})
	}
	return b.String()
}

// FileName returns the suggested export filename with a compact
// second-precision UTC timestamp, e.g. worldnews_20240315103045.csv.
func FileName(now time.Time) string {
	return "worldnews_" + now.UTC().Format("20060102150405") + ".csv"
}

// hostname extracts the host component of a URL, or "" when the URL is
// absent or unparsable.
func hostname(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escape(f))
	}
	b.WriteByte('\n')
}

// escape quotes a field only when it contains a comma, double quote, or
// newline, doubling internal quotes.
func escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
