package worldnews_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkhov/worldnews-proxy/internal/models"
	"github.com/avolkhov/worldnews-proxy/internal/worldnews"
)

func TestFetchSuccess(t *testing.T) {
	payload := `{"news":[{"id":1,"title":"hello"}],"available":1}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search-news", r.URL.Path)
		require.Equal(t, "golang", r.URL.Query().Get("text"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	raw, err := c.Fetch(context.Background(), url.Values{"text": {"golang"}})
	require.NoError(t, err)
	require.JSONEq(t, payload, string(raw))
}

func TestFetchUpstreamHTTPErrorWithJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	_, err := c.Fetch(context.Background(), url.Values{})
	require.Error(t, err)

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindUpstreamHTTP, uerr.Kind)
	require.Equal(t, http.StatusInternalServerError, uerr.HTTPStatus)
	require.Equal(t, map[string]any{"message": "boom"}, uerr.Details)
}

func TestFetchUpstreamHTTPErrorWithTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	_, err := c.Fetch(context.Background(), url.Values{})

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindUpstreamHTTP, uerr.Kind)
	require.Equal(t, http.StatusTooManyRequests, uerr.HTTPStatus)
	require.Equal(t, "slow down", uerr.Details)
}

func TestFetchUpstreamHTTPErrorJSONBodyWithTextContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	_, err := c.Fetch(context.Background(), url.Values{})

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindUpstreamHTTP, uerr.Kind)
	require.Equal(t, map[string]any{"message": "boom"}, uerr.Details)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, 50*time.Millisecond, nil)
	start := time.Now()
	_, err := c.Fetch(context.Background(), url.Values{})
	require.Less(t, time.Since(start), time.Second)

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindTimeout, uerr.Kind)
}

func TestFetchInvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	_, err := c.Fetch(context.Background(), url.Values{})

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindNetwork, uerr.Kind)
}

func TestFetchConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := worldnews.New(srv.URL, time.Second, nil)
	_, err := c.Fetch(context.Background(), url.Values{})

	var uerr *models.Error
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, models.KindNetwork, uerr.Kind)
}
