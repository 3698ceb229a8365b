// Package query assembles the parameter set understood by the upstream
// search endpoint from loosely-typed search options.
package query

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/avolkhov/worldnews-proxy/internal/models"
)

// Recognized upstream parameter names.
const (
	ParamText       = "text"
	ParamLanguage   = "language"
	ParamNumber     = "number"
	ParamAPIKey     = "api-key"
	ParamCategories = "categories"
	ParamEarliest   = "earliest-publish-date"
	ParamLatest     = "latest-publish-date"
)

const (
	defaultLanguage = "en"
	defaultNumber   = "10"
	dayLayout       = "2006-01-02"
)

// windowRule may set or overwrite the publish-date bounds it targets.
// Rules run top to bottom; later rules win for the bounds they touch.
type windowRule func(opts models.SearchOptions, params url.Values)

var windowRules = []windowRule{dayWindow, fromToWindow, explicitBounds}

// Build resolves the API key and turns opts into upstream query parameters.
// A missing key (neither per-call nor default) fails with NO_API_KEY before
// any network activity.
func Build(opts models.SearchOptions, defaultKey string) (url.Values, error) {
	key := opts.APIKey
	if key == "" {
		key = defaultKey
	}
	if key == "" {
		return nil, &models.Error{Kind: models.KindNoAPIKey, Err: errors.New("missing api key")}
	}

	params := url.Values{}
	if opts.Query != "" {
		params.Set(ParamText, opts.Query)
	}
	lang := opts.Language
	if lang == "" {
		lang = defaultLanguage
	}
	params.Set(ParamLanguage, lang)
	number := opts.Number
	if number == "" {
		number = defaultNumber
	}
	params.Set(ParamNumber, number)
	params.Set(ParamAPIKey, key)

	if cats := resolveCategories(opts); cats != "" {
		params.Set(ParamCategories, cats)
	}

	for _, rule := range windowRules {
		rule(opts, params)
	}

	return params, nil
}

// resolveCategories prefers the plural list over the singular value.
func resolveCategories(opts models.SearchOptions) string {
	if len(opts.Categories) > 0 {
		kept := make([]string, 0, len(opts.Categories))
		for _, c := range opts.Categories {
			if c != "" {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, ",")
		}
	}
	return opts.Category
}

// dayWindow expands a single calendar date into a full-day UTC window.
// A day that fails to parse is ignored; the build itself never fails here.
func dayWindow(opts models.SearchOptions, params url.Values) {
	if opts.Day == "" {
		return
	}
	d, err := time.Parse(dayLayout, opts.Day)
	if err != nil {
		return
	}
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
	params.Set(ParamEarliest, start.Format(time.RFC3339))
	params.Set(ParamLatest, end.Format(time.RFC3339))
}

// fromToWindow applies the already upstream-formatted from/to strings, but
// only when no day was supplied at all.
func fromToWindow(opts models.SearchOptions, params url.Values) {
	if opts.Day != "" {
		return
	}
	if opts.From != "" {
		params.Set(ParamEarliest, opts.From)
	}
	if opts.To != "" {
		params.Set(ParamLatest, opts.To)
	}
}

// explicitBounds overwrites whichever bound was given directly; each bound
// is independent of the other.
func explicitBounds(opts models.SearchOptions, params url.Values) {
	if opts.Earliest != "" {
		params.Set(ParamEarliest, opts.Earliest)
	}
	if opts.Latest != "" {
		params.Set(ParamLatest, opts.Latest)
	}
}
