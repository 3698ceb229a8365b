// Package worldnews talks to the World News API search endpoint.
package worldnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/avolkhov/worldnews-proxy/internal/logger"
	"github.com/avolkhov/worldnews-proxy/internal/models"
)

const (
	searchPath = "/search-news"
	userAgent  = "worldnews-proxy/1.0"

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 10 * time.Second
)

// Client performs HTTP calls against the upstream search endpoint and
// classifies every failure into the search error taxonomy.
type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
	log     *slog.Logger
}

// New instantiates the upstream client. A non-positive timeout falls back
// to DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpc:   &http.Client{},
		log:     log,
	}
}

// Fetch issues exactly one GET with the given parameters and returns the
// raw JSON payload on success. The deadline is armed before the call and
// released on every exit path.
func (c *Client) Fetch(ctx context.Context, params url.Values) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + searchPath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.Error{Kind: models.KindNetwork, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("upstream request failed",
			slog.Int("status", resp.StatusCode),
			slog.Int("body_size", len(body)),
		)
		return nil, &models.Error{
			Kind:       models.KindUpstreamHTTP,
			HTTPStatus: resp.StatusCode,
			Details:    errorDetails(resp.Header.Get("Content-Type"), body),
			Err:        fmt.Errorf("upstream status %d", resp.StatusCode),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, &models.Error{Kind: models.KindNetwork, Err: errors.New("upstream returned invalid JSON")}
	}

	c.log.Debug("upstream request succeeded", slog.Int("body_size", len(body)))
	return json.RawMessage(body), nil
}

// classify maps transport failures onto the error taxonomy. An elapsed
// deadline is a timeout, everything else is a network error.
func (c *Client) classify(err error) *models.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &models.Error{Kind: models.KindTimeout, Err: err}
	}
	return &models.Error{Kind: models.KindNetwork, Err: err}
}

// errorDetails parses the error body as JSON when the content type says so
// (or the body happens to be valid JSON); otherwise the raw text is kept.
func errorDetails(contentType string, body []byte) any {
	if strings.Contains(contentType, "application/json") || gjson.ValidBytes(body) {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}
