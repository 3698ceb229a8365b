package models

import (
	"encoding/json"
	"fmt"
)

// SearchOptions carries every knob a caller may set on a news search.
// All fields are optional; zero values mean "not provided".
type SearchOptions struct {
	Query    string
	Language string
	Number   string
	APIKey   string

	// Day is a single calendar date (YYYY-MM-DD) expanded to a full-day
	// window. From/To are upstream-formatted datetime strings. Earliest and
	// Latest bypass window resolution entirely and win over everything else.
	Day      string
	From     string
	To       string
	Earliest string
	Latest   string

	Categories []string
	Category   string
}

// NewsItem is the normalized shape every upstream record is mapped into.
// Every field has a defined zero default so consumers never need presence
// checks beyond emptiness tests.
type NewsItem struct {
	// ID is numeric upstream; a non-numeric raw id coerces to 0.
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	Summary       string   `json:"summary"`
	URL           string   `json:"url"`
	Image         string   `json:"image"`
	Video         string   `json:"video"`
	PublishDate   string   `json:"publish_date"`
	Authors       []string `json:"authors"`
	Category      string   `json:"category"`
	Language      string   `json:"language"`
	SourceCountry string   `json:"source_country"`
	Sentiment     *float64 `json:"sentiment,omitempty"`
}

// SearchResult bundles the normalized items with the untouched upstream
// payload. Raw is kept for pass-through uses such as the CSV category
// fallback.
type SearchResult struct {
	News []NewsItem      `json:"news"`
	Raw  json.RawMessage `json:"raw"`
}

// ErrorKind classifies search failures.
type ErrorKind string

const (
	KindNoAPIKey     ErrorKind = "NO_API_KEY"
	KindTimeout      ErrorKind = "TIMEOUT"
	KindUpstreamHTTP ErrorKind = "UPSTREAM_HTTP_ERROR"
	KindNetwork      ErrorKind = "NETWORK_ERROR"
)

// Error is the single failure type surfaced by the search pipeline.
// HTTPStatus is set only for KindUpstreamHTTP; Details carries the upstream
// error body, parsed as JSON when the upstream said it was JSON.
type Error struct {
	Kind       ErrorKind
	HTTPStatus int
	Details    any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}
