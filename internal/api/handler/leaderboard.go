package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
)

// LeaderboardHandler serves ranked leaderboards
type LeaderboardHandler struct {
	errorWriter
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *leaderboard.Service, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		errorWriter: newErrorWriter(logger),
		leaderboard: leaderboard,
	}
}

// Get handles GET /leaderboard/{window}?limit=N
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	window, err := model.ParseWindow(mux.Vars(r)["window"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	limit := leaderboard.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, NewInvalidRequestError("limit must be an integer"))
			return
		}
	}

	entries, err := h.leaderboard.Rank(r.Context(), window, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(window, entries))
}

// Me handles GET /leaderboard/{window}/me
func (h *LeaderboardHandler) Me(w http.ResponseWriter, r *http.Request) {
	window, err := model.ParseWindow(mux.Vars(r)["window"])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	player := middleware.MustGetPlayer(r.Context())
	entry, err := h.leaderboard.PlayerStanding(r.Context(), window, player.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardEntryFromModel(*entry))
}
