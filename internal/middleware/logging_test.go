package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog routes the default logger into a buffer for the duration of
// the test and returns the decoded records.
func captureLog(t *testing.T) func() []map[string]any {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return func() []map[string]any {
		var records []map[string]any
		dec := json.NewDecoder(&buf)
		for dec.More() {
			var rec map[string]any
			require.NoError(t, dec.Decode(&rec))
			records = append(records, rec)
		}
		return records
	}
}

func TestLoggerLevelFollowsStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"page", http.StatusOK, "INFO"},
		{"redirect", http.StatusMovedPermanently, "INFO"},
		{"missing post", http.StatusNotFound, "WARN"},
		{"rejected contact", http.StatusBadRequest, "WARN"},
		{"database down", http.StatusServiceUnavailable, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := captureLog(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/hello/", nil))
			assert.Equal(t, tt.status, rec.Code)

			logged := records()
			require.Len(t, logged, 1)
			assert.Equal(t, tt.level, logged[0]["level"])
			assert.Equal(t, "http request", logged[0]["msg"])
			assert.Equal(t, float64(tt.status), logged[0]["status"])
		})
	}
}

func TestLoggerRecordsRequestFields(t *testing.T) {
	records := captureLog(t)
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("thanks, "))
		_, _ = w.Write([]byte("message received"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/contact/?src=footer", nil)
	req.RemoteAddr = "203.0.113.9:5123"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "thanks, message received", rec.Body.String())

	logged := records()
	require.Len(t, logged, 1)
	entry := logged[0]
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/contact/", entry["path"], "query strings stay out of the log")
	assert.Equal(t, float64(24), entry["bytes"])
	assert.Equal(t, "203.0.113.9:5123", entry["remote"])
	assert.NotEmpty(t, entry["duration"])
}

func TestResponseWriterFirstStatusWins(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)
	_, _ = rw.Write([]byte("{}"))

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, 2, rw.bytes)
	assert.True(t, rw.written)
}

func TestResponseWriterImplicitOK(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	n, err := rw.Write([]byte("feed"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, http.StatusOK, rw.statusCode)
}

func TestResponseWriterUnwrap(t *testing.T) {
	inner := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: inner}
	assert.Same(t, inner, rw.Unwrap())

	// ResponseController walks Unwrap to reach the recorder's Flush.
	require.NoError(t, http.NewResponseController(rw).Flush())
	assert.True(t, inner.Flushed)
}
