package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/auth"
	"github.com/mcoot/wordquiz/internal/services/content"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
	"github.com/mcoot/wordquiz/internal/services/scores"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("%w: email is required", model.ErrInvalidInput), http.StatusBadRequest, CodeInvalidRequest},
		{"invalid window", model.ErrInvalidWindow, http.StatusBadRequest, CodeInvalidRequest},
		{"invalid limit", leaderboard.ErrInvalidLimit, http.StatusBadRequest, CodeInvalidRequest},
		{"negative points", scores.ErrNegativePoints, http.StatusBadRequest, CodeInvalidRequest},
		{"points too large", scores.ErrPointsTooLarge, http.StatusBadRequest, CodeInvalidRequest},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"unauthenticated", NewUnauthorizedError(), http.StatusUnauthorized, CodeUnauthorized},
		{"wrong kind", NewForbiddenError(), http.StatusForbidden, CodeForbidden},
		{"bootstrap closed", auth.ErrBootstrapClosed, http.StatusForbidden, CodeBootstrapClosed},
		{"player missing", model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"subject missing", model.ErrSubjectNotFound, http.StatusNotFound, CodeSubjectNotFound},
		{"word missing", model.ErrWordNotFound, http.StatusNotFound, CodeWordNotFound},
		{"not ranked", leaderboard.ErrNotRanked, http.StatusNotFound, CodeNotRanked},
		{"email exists", auth.ErrEmailExists, http.StatusConflict, CodeEmailExists},
		{"subject exists", content.ErrSubjectExists, http.StatusConflict, CodeSubjectExists},
		{"duplicate", model.ErrDuplicate, http.StatusConflict, CodeConflict},
		{"data unavailable", fmt.Errorf("%w: dial tcp: refused", model.ErrDataUnavailable), http.StatusInternalServerError, CodeInternalError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))

			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestInternalErrorsHideDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: SELECT * FROM players: connection refused", model.ErrDataUnavailable))

	assert.NotContains(t, rr.Body.String(), "SELECT")
	assert.NotContains(t, rr.Body.String(), "refused")
}
