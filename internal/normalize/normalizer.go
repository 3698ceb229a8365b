// Package normalize maps inconsistent upstream record shapes into the fixed
// internal news-item shape.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/avolkhov/worldnews-proxy/internal/models"
)

// Candidate raw field names, tried in priority order.
var (
	categoryFields = []string{"category", "categories", "topic", "topics"}
	countryFields  = []string{"source_country", "sourceCountry", "country"}
)

// Items maps the raw payload's news list into normalized items, preserving
// upstream order. A missing or non-list news field yields an empty slice,
// never an error.
func Items(raw json.RawMessage) []models.NewsItem {
	news := gjson.GetBytes(raw, "news")
	if !news.IsArray() {
		return []models.NewsItem{}
	}

	records := news.Array()
	items := make([]models.NewsItem, 0, len(records))
	for _, rec := range records {
		items = append(items, item(rec))
	}
	return items
}

func item(rec gjson.Result) models.NewsItem {
	it := models.NewsItem{
		ID:            rec.Get("id").Int(),
		Title:         rec.Get("title").String(),
		Text:          rec.Get("text").String(),
		Summary:       rec.Get("summary").String(),
		URL:           rec.Get("url").String(),
		Image:         rec.Get("image").String(),
		Video:         rec.Get("video").String(),
		PublishDate:   rec.Get("publish_date").String(),
		Authors:       authors(rec.Get("authors")),
		Category:      category(rec),
		Language:      rec.Get("language").String(),
		SourceCountry: firstString(rec, countryFields),
	}
	if s := rec.Get("sentiment"); s.Type == gjson.Number {
		v := s.Float()
		it.Sentiment = &v
	}
	return it
}

// authors accepts a list (falsy entries dropped), a truthy scalar (wrapped),
// or anything else (empty list). Never nil.
func authors(r gjson.Result) []string {
	out := []string{}
	if r.IsArray() {
		for _, e := range r.Array() {
			if truthy(e) {
				out = append(out, e.String())
			}
		}
		return out
	}
	if truthy(r) {
		out = append(out, r.String())
	}
	return out
}

// category resolves the first non-empty candidate field; a list is joined
// with "; " after dropping falsy entries, a scalar is coerced to string.
func category(rec gjson.Result) string {
	for _, field := range categoryFields {
		r := rec.Get(field)
		if !nonEmpty(r) {
			continue
		}
		if r.IsArray() {
			kept := []string{}
			for _, e := range r.Array() {
				if truthy(e) {
					kept = append(kept, e.String())
				}
			}
			return strings.Join(kept, "; ")
		}
		return r.String()
	}
	return ""
}

func firstString(rec gjson.Result, fields []string) string {
	for _, field := range fields {
		if s := rec.Get(field).String(); s != "" {
			return s
		}
	}
	return ""
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}

func nonEmpty(r gjson.Result) bool {
	if r.IsArray() {
		return len(r.Array()) > 0
	}
	return truthy(r)
}
