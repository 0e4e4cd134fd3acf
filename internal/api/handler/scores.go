package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/api/request"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/services/scores"
)

// ScoreHandler records finished games
type ScoreHandler struct {
	errorWriter
	scores *scores.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores *scores.Service, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		errorWriter: newErrorWriter(logger),
		scores:      scores,
	}
}

// Submit handles POST /scores for the calling player
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Points == nil {
		h.fail(w, r, NewInvalidRequestError("points is required"))
		return
	}

	player := middleware.MustGetPlayer(r.Context())
	event, err := h.scores.Submit(r.Context(), player.ID, *req.Points, req.Challenge)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.ScoreEventFromModel(event))
}
