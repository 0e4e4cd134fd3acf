package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordquiz/internal/testutil"
)

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leaderboard/weekly", nil))

	entries := testutil.LogEntries(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "/leaderboard/weekly", entries[0]["path"])
	assert.EqualValues(t, http.StatusTeapot, entries[0]["status"])
	assert.EqualValues(t, len("short and stout"), entries[0]["size"])
}

func TestLoggingWarnsOnServerError(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entries := testutil.LogEntries(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestNewResponseWriterDoesNotDoubleWrap(t *testing.T) {
	rw := NewResponseWriter(httptest.NewRecorder())
	assert.Same(t, rw, NewResponseWriter(rw))
	assert.Equal(t, http.StatusOK, rw.Status())
}

func TestRecoveryCallsPanicHandler(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	var got error
	handler := Recovery(logger, func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		PlainPanicHandler(w, r, err)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/scores", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "kaboom")
	require.Error(t, got)
	assert.Contains(t, got.Error(), "kaboom")

	entries := testutil.LogEntries(buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0]["msg"])
	assert.Equal(t, "/scores", entries[0]["path"])
}

func TestRecoveryKeepsErrorPanics(t *testing.T) {
	sentinel := errors.New("store exploded")

	var got error
	handler := Recovery(testutil.NopLogger(), func(w http.ResponseWriter, r *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(sentinel)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, got, sentinel)
}

func TestRecoveryReraisesAbort(t *testing.T) {
	handler := Recovery(testutil.NopLogger(), PlainPanicHandler)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLoggingAssignsRequestID(t *testing.T) {
	logger, buf := testutil.CaptureLogger()

	var seen string
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, seen, testutil.LogEntries(buf)[0]["request_id"])
}

func TestLoggingReusesInboundRequestID(t *testing.T) {
	const inbound = "0b6f1d3c-8f7e-4a52-9a51-3f3c2b1f9d10"

	handler := Logging(testutil.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, inbound)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, inbound, rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid; drop table")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.NotEqual(t, "not a uuid; drop table", rr.Header().Get(RequestIDHeader))
}
