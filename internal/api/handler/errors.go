package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/wordquiz/internal/api/apierr"
	"github.com/mcoot/wordquiz/internal/errutil"
	httpmw "github.com/mcoot/wordquiz/internal/middleware"
)

// Re-export from apierr for convenience
type ErrorResponse = apierr.ErrorResponse

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// errorWriter writes error responses and logs the ones that end up as 500s.
// The diagnostic goes to the log only; the body stays generic.
type errorWriter struct {
	logger *slog.Logger
}

func newErrorWriter(logger *slog.Logger) errorWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return errorWriter{logger: logger}
}

func (e errorWriter) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		errutil.LogError(e.logger, "request failed", err,
			slog.String("request_id", httpmw.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}
	WriteError(w, err)
}

// decode reads a JSON request body into v
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}
