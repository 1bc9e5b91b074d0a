package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
)

func TestClient_ErrorMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			WriteNotFound(w, "team 9 not found")
		case "/bad":
			WriteBadRequest(w, "homeGoals must be >= 0")
		case "/boom":
			http.Error(w, "kaput", http.StatusBadGateway)
		case "/teapot":
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil, logger.Test(t))
	ctx := context.Background()

	err := c.Get(ctx, "/missing", nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "team 9 not found")
	assert.Equal(t, http.StatusNotFound, GetHTTPStatusCode(err))

	err = c.Post(ctx, "/bad", map[string]int{"homeGoals": -1}, nil)
	require.ErrorIs(t, err, ErrBadRequest)
	assert.True(t, IsHTTPError(err, http.StatusBadRequest))

	err = c.Get(ctx, "/boom", nil)
	require.ErrorIs(t, err, ErrInternalError)
	assert.Contains(t, err.Error(), "kaput")

	err = c.Get(ctx, "/teapot", nil)
	require.Error(t, err)
	assert.True(t, IsHTTPError(err, http.StatusTeapot))
	assert.False(t, IsHTTPError(nil, 0))
}

func TestClient_DecodeAndRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			_ = WriteJSON(w, http.StatusOK, body)
			return
		}
		_ = WriteJSON(w, http.StatusOK, []map[string]any{{"id": 1}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	assert.Equal(t, srv.URL, c.BaseURL())

	raw, err := c.GetRaw(context.Background(), "/teams")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(raw))

	var out map[string]string
	require.NoError(t, c.Patch(context.Background(), "/teams/1/owner", map[string]string{"owner": "Jo"}, &out))
	assert.Equal(t, "Jo", out["owner"])
}

func TestBaseServer_RequestIDAndCORS(t *testing.T) {
	bs := NewBaseServer(":0", logger.Test(t))
	bs.Router.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusOK, map[string]string{"pong": "yes"})
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://example.com")
	bs.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	bs.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(RequestIDHeader))
}
