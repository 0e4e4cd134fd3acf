package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/auth"
	"github.com/mcoot/wordquiz/internal/services/content"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
	"github.com/mcoot/wordquiz/internal/services/scores"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeBootstrapClosed    = "BOOTSTRAP_CLOSED"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeSubjectNotFound    = "SUBJECT_NOT_FOUND"
	CodeSubjectExists      = "SUBJECT_EXISTS"
	CodeWordNotFound       = "WORD_NOT_FOUND"
	CodeNoWords            = "NO_WORDS"
	CodeNotRanked          = "NOT_RANKED"
	CodeConflict           = "CONFLICT"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with the response body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error
}

// WriteError writes an error response to the response writer.
// Unrecognised errors become a generic 500 so internal detail never leaks.
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrInvalidInput):
		return &httpError{http.StatusBadRequest, ErrorResponse{err.Error(), CodeInvalidRequest}}
	case errors.Is(err, model.ErrInvalidWindow):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Window must be weekly, monthly or challenge", CodeInvalidRequest}}
	case errors.Is(err, leaderboard.ErrInvalidLimit):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Limit must be at least 1", CodeInvalidRequest}}
	case errors.Is(err, scores.ErrNegativePoints):
		return &httpError{http.StatusBadRequest, ErrorResponse{"Points must not be negative", CodeInvalidRequest}}
	case errors.Is(err, scores.ErrPointsTooLarge):
		return &httpError{http.StatusBadRequest, ErrorResponse{fmt.Sprintf("Points must not exceed %d", scores.MaxPoints), CodeInvalidRequest}}

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, ErrorResponse{"Invalid email or password", CodeInvalidCredentials}}
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusConflict, ErrorResponse{"Email already registered", CodeEmailExists}}
	case errors.Is(err, auth.ErrBootstrapClosed):
		return &httpError{http.StatusForbidden, ErrorResponse{"Admin bootstrap is closed", CodeBootstrapClosed}}

	// Not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"Player not found", CodePlayerNotFound}}
	case errors.Is(err, model.ErrSubjectNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"Subject not found", CodeSubjectNotFound}}
	case errors.Is(err, model.ErrWordNotFound):
		return &httpError{http.StatusNotFound, ErrorResponse{"Word not found", CodeWordNotFound}}
	case errors.Is(err, model.ErrNoWords):
		return &httpError{http.StatusNotFound, ErrorResponse{"Subject has no words", CodeNoWords}}
	case errors.Is(err, leaderboard.ErrNotRanked):
		return &httpError{http.StatusNotFound, ErrorResponse{"No qualifying score in this window", CodeNotRanked}}

	// Conflicts
	case errors.Is(err, content.ErrSubjectExists):
		return &httpError{http.StatusConflict, ErrorResponse{"Subject already exists", CodeSubjectExists}}
	case errors.Is(err, model.ErrDuplicate):
		return &httpError{http.StatusConflict, ErrorResponse{"Record already exists", CodeConflict}}

	default:
		return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, ErrorResponse{message, CodeInvalidRequest}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, ErrorResponse{"Authentication required", CodeUnauthorized}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{http.StatusForbidden, ErrorResponse{"Not permitted for this account", CodeForbidden}}
}

// NewNotFoundError creates an error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, ErrorResponse{"Not found", CodeNotFound}}
}

// NewMethodNotAllowedError creates an error for a known route with the wrong method
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, ErrorResponse{"Method not allowed", CodeMethodNotAllowed}}
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, ErrorResponse{"Too many requests", CodeRateLimited}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, ErrorResponse{"Internal server error", CodeInternalError}}
}
