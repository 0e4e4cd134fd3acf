package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/api/request"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/players"
)

// AdminHandler handles player account management for administrators
type AdminHandler struct {
	errorWriter
	players *players.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(players *players.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		errorWriter: newErrorWriter(logger),
		players:     players,
	}
}

// ListPlayers handles GET /admin/players
func (h *AdminHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	list, err := h.players.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerRecordsFromModel(list))
}

// GetPlayer handles GET /admin/players/{id}
func (h *AdminHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.Get(r.Context(), playerIDVar(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerRecordFromModel(player))
}

// SetPlayerStatus handles PATCH /admin/players/{id}/status
func (h *AdminHandler) SetPlayerStatus(w http.ResponseWriter, r *http.Request) {
	var req request.SetStatusRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.IsActive == nil {
		h.fail(w, r, NewInvalidRequestError("is_active is required"))
		return
	}

	admin := middleware.MustGetAdmin(r.Context())
	player, err := h.players.SetActive(r.Context(), admin.ID, playerIDVar(r), *req.IsActive)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerRecordFromModel(player))
}

// DeletePlayer handles DELETE /admin/players/{id}
func (h *AdminHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	admin := middleware.MustGetAdmin(r.Context())
	if err := h.players.Delete(r.Context(), admin.ID, playerIDVar(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

func playerIDVar(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}
