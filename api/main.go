package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"

	"github.com/avolkhov/worldnews-proxy/internal/config"
	"github.com/avolkhov/worldnews-proxy/internal/csvexport"
	"github.com/avolkhov/worldnews-proxy/internal/logger"
	"github.com/avolkhov/worldnews-proxy/internal/models"
	"github.com/avolkhov/worldnews-proxy/internal/search"
	"github.com/avolkhov/worldnews-proxy/internal/storage"
	"github.com/avolkhov/worldnews-proxy/internal/worldnews"
)

func main() {
	// Optional; the key may live in a dotfile instead of the environment.
	_ = godotenv.Load()

	log := logger.New("api")
	cfg, err := config.LoadProxy()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	client := worldnews.New(cfg.BaseURL, cfg.UpstreamTimeout, log)
	svc := search.New(cfg.APIKey, client, log)

	srv := &server{log: log, cfg: cfg, news: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
	})

	r.Get("/health", srv.handleHealth)
	r.Get("/api/worldnews", srv.handleSearch)
	r.Get("/api/worldnews/csv", srv.handleExport)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log  *slog.Logger
	cfg  *config.Proxy
	news *search.Service
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.news.Search(r.Context(), s.searchOptions(r))
	if err != nil {
		s.writeSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.news.Search(r.Context(), s.searchOptions(r))
	if err != nil {
		s.writeSearchError(w, err)
		return
	}

	fallback := gjson.GetBytes(result.Raw, "category").String()
	csv := csvexport.Export(result.News, fallback)
	name := csvexport.FileName(time.Now())

	q := r.URL.Query()
	if q.Get("save") == "1" || q.Get("s") == "1" {
		if path, err := storage.Save(s.cfg.ExportDir, name, []byte(csv)); err != nil {
			// The response must not fail because of a save error.
			w.Header().Set("X-Save-Error", err.Error())
			s.log.Warn("save export", slog.Any("err", err))
		} else {
			s.log.Info("export saved", slog.String("path", path))
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}

// searchOptions reads the inbound query parameters, filling in configured
// defaults for language and result count.
func (s *server) searchOptions(r *http.Request) models.SearchOptions {
	q := r.URL.Query()
	opts := models.SearchOptions{
		Query:      strings.TrimSpace(q.Get("q")),
		Language:   strings.TrimSpace(q.Get("lang")),
		Number:     strings.TrimSpace(q.Get("number")),
		APIKey:     strings.TrimSpace(q.Get("key")),
		Day:        strings.TrimSpace(q.Get("day")),
		From:       strings.TrimSpace(q.Get("from")),
		To:         strings.TrimSpace(q.Get("to")),
		Earliest:   strings.TrimSpace(q.Get("earliest-publish-date")),
		Latest:     strings.TrimSpace(q.Get("latest-publish-date")),
		Categories: parseCSV(q.Get("categories")),
		Category:   strings.TrimSpace(q.Get("category")),
	}
	if opts.Language == "" {
		opts.Language = s.cfg.DefaultLanguage
	}
	if opts.Number == "" {
		opts.Number = strconv.Itoa(s.cfg.DefaultNumber)
	}
	return opts
}

// writeSearchError maps the search error taxonomy onto HTTP statuses:
// NO_API_KEY 400, TIMEOUT 504, UPSTREAM_HTTP_ERROR passes the upstream
// status through, NETWORK_ERROR 502.
func (s *server) writeSearchError(w http.ResponseWriter, err error) {
	var uerr *models.Error
	if !errors.As(err, &uerr) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	switch uerr.Kind {
	case models.KindNoAPIKey:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Missing API key. Set WORLDNEWS_API_KEY or pass ?key=...",
		})
	case models.KindTimeout:
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Error: "Upstream did not respond in time",
		})
	case models.KindUpstreamHTTP:
		status := uerr.HTTPStatus
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{
			Error:   "Failed to fetch World News",
			Details: uerr.Details,
		})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   "Failed to fetch World News",
			Details: uerr.Error(),
		})
	}
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
