// Package search composes query building, the upstream fetch, and record
// normalization into the single operation handlers call.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/avolkhov/worldnews-proxy/internal/logger"
	"github.com/avolkhov/worldnews-proxy/internal/models"
	"github.com/avolkhov/worldnews-proxy/internal/normalize"
	"github.com/avolkhov/worldnews-proxy/internal/query"
)

// Fetcher performs the upstream HTTP call.
type Fetcher interface {
	Fetch(ctx context.Context, params url.Values) (json.RawMessage, error)
}

// Service is the sole entry point for news searches.
type Service struct {
	defaultKey string
	client     Fetcher
	log        *slog.Logger
}

// New wires the service. defaultKey may be empty; searches then require a
// per-call key.
func New(defaultKey string, client Fetcher, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{defaultKey: defaultKey, client: client, log: log}
}

// Search runs build -> fetch -> normalize. A single upstream failure is
// surfaced immediately; there are no retries at this layer.
func (s *Service) Search(ctx context.Context, opts models.SearchOptions) (*models.SearchResult, error) {
	searchID := uuid.NewString()

	params, err := query.Build(opts, s.defaultKey)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.Fetch(ctx, params)
	if err != nil {
		s.log.Warn("search failed",
			slog.String("search_id", searchID),
			slog.Any("err", err),
		)
		return nil, err
	}

	items := normalize.Items(raw)
	s.log.Info("search completed",
		slog.String("search_id", searchID),
		slog.Int("items", len(items)),
	)

	return &models.SearchResult{News: items, Raw: raw}, nil
}
