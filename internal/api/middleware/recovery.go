package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordquiz/internal/api/apierr"
	"github.com/mcoot/wordquiz/internal/middleware"
)

// Recovery creates panic recovery middleware for the API
// Returns JSON error responses on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

// Logging re-exports the shared request logger so the router only imports this package
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	apierr.WriteError(w, apierr.NewInternalError())
}
