package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/api/request"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/model"
	"github.com/mcoot/wordquiz/internal/services/auth"
)

// AuthHandler handles login, logout and identity endpoints for players and admins
type AuthHandler struct {
	errorWriter
	authService *auth.Service
	metrics     *metrics.Manager
}

// NewAuthHandler creates a new auth handler. metrics may be nil.
func NewAuthHandler(authService *auth.Service, metrics *metrics.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		errorWriter: newErrorWriter(logger),
		authService: authService,
		metrics:     metrics,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if req.Email == "" {
		h.fail(w, r, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		h.fail(w, r, NewInvalidRequestError("password is required"))
		return
	}
	if req.DisplayName == "" {
		h.fail(w, r, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Email, req.Phone, req.DisplayName, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.startSession(w, r, session, http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.KindPlayer, h.authService.Login)
}

// Logout handles POST /auth/logout. Tokens are stateless, so logging out
// means dropping the cookie; a copied bearer token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, r, model.KindPlayer)
	response.StatusOK(w, "logged_out")
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromPrincipal(player))
}

// AdminLogin handles POST /admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.KindAdmin, h.authService.AdminLogin)
}

// AdminLogout handles POST /admin/logout
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, r, model.KindAdmin)
	response.StatusOK(w, "logged_out")
}

// AdminMe handles GET /admin/me
func (h *AuthHandler) AdminMe(w http.ResponseWriter, r *http.Request) {
	admin := middleware.MustGetAdmin(r.Context())
	response.JSON(w, http.StatusOK, response.AdminFromPrincipal(admin))
}

// Bootstrap handles POST /admin/bootstrap, creating the first admin
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	session, err := h.authService.BootstrapAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.startSession(w, r, session, http.StatusCreated)
}

type loginFunc func(ctx context.Context, email, password string) (*auth.Session, error)

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, kind model.PrincipalKind, fn loginFunc) {
	var req request.LoginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if req.Email == "" {
		h.fail(w, r, NewInvalidRequestError("email is required"))
		return
	}
	if req.Password == "" {
		h.fail(w, r, NewInvalidRequestError("password is required"))
		return
	}

	session, err := fn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.IncAuthAttempt(string(kind), "failure")
		h.fail(w, r, err)
		return
	}

	h.metrics.IncAuthAttempt(string(kind), "success")
	h.startSession(w, r, session, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, session *auth.Session, status int) {
	middleware.SetSessionCookie(w, r, session.Principal.Kind(), session.Token, session.ExpiresAt)
	response.JSON(w, status, response.AuthResponseFromSession(session))
}
