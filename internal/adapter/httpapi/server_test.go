package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
	"github.com/chriskacerguis/hamqrzdb/internal/observability"
	"github.com/chriskacerguis/hamqrzdb/internal/store"
)

func testServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServer(":0", st, logger, observability.NewMetricsForTesting())
}

func doRequest(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, domain.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var doc domain.Document
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	}
	return rec, doc
}

func TestLookup_Hit(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Upsert(context.Background(), domain.Update{
		Callsign: "W1AW", LicenseStatus: "A", OperatorClass: "E", LastName: "Public",
	}))

	s := testServer(t, st)
	rec, doc := doRequest(t, s, "/v1/W1AW/json/testapp")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "W1AW", doc.HamDB.Callsign.Call)
	assert.Equal(t, "E", doc.HamDB.Callsign.Class)
	assert.Equal(t, "OK", doc.HamDB.Messages["status"])
}

func TestLookup_LowercaseCallsign(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Upsert(context.Background(), domain.Update{Callsign: "W1AW", LicenseStatus: "A"}))

	s := testServer(t, st)
	rec, doc := doRequest(t, s, "/v1/w1aw/json/testapp")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "W1AW", doc.HamDB.Callsign.Call)
}

func TestLookup_MissReturns200NotFoundEnvelope(t *testing.T) {
	s := testServer(t, store.NewMemory())
	rec, doc := doRequest(t, s, "/v1/N0CALL/json/testapp")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NOT_FOUND", doc.HamDB.Callsign.Call)
	assert.Equal(t, "NOT_FOUND", doc.HamDB.Messages["status"])
}

func TestHealthz(t *testing.T) {
	s := testServer(t, store.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	st := store.NewMemory()
	s := testServer(t, st)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, st.Upsert(context.Background(), domain.Update{Callsign: "W1AW"}))
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, store.NewMemory())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
