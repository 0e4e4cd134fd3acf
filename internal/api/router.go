package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordquiz/internal/api/apierr"
	"github.com/mcoot/wordquiz/internal/api/handler"
	"github.com/mcoot/wordquiz/internal/api/middleware"
	"github.com/mcoot/wordquiz/internal/api/response"
	"github.com/mcoot/wordquiz/internal/metrics"
	"github.com/mcoot/wordquiz/internal/services/auth"
	"github.com/mcoot/wordquiz/internal/services/content"
	"github.com/mcoot/wordquiz/internal/services/leaderboard"
	"github.com/mcoot/wordquiz/internal/services/players"
	"github.com/mcoot/wordquiz/internal/services/scores"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Metrics            *metrics.Manager
	AuthService        *auth.Service
	LeaderboardService *leaderboard.Service
	ScoreService       *scores.Service
	PlayerService      *players.Service
	ContentService     *content.Service
	// LoginLimiter throttles credential endpoints per client IP; nil disables it
	LoginLimiter *middleware.IPRateLimiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Metrics, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.PlayerService, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.ScoreService, cfg.Logger)
	contentHandler := handler.NewContentHandler(cfg.ContentService, cfg.Logger)

	// Create middleware
	throttled := middleware.RateLimit(cfg.LoginLimiter)
	player := middleware.RequirePlayer

	// Every request gets a principal, Anonymous included; guards decide per route
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.Resolve(cfg.AuthService))

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	// Operational endpoints
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	// Player session routes
	r.Handle("/auth/register", throttled(http.HandlerFunc(authHandler.Register))).Methods(http.MethodPost)
	r.Handle("/auth/login", throttled(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	r.Handle("/auth/me", player(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	// Leaderboards are public; the caller's own standing needs a player
	r.HandleFunc("/leaderboard/{window}", leaderboardHandler.Get).Methods(http.MethodGet)
	r.Handle("/leaderboard/{window}/me", player(http.HandlerFunc(leaderboardHandler.Me))).Methods(http.MethodGet)

	// Scores
	r.Handle("/scores", player(http.HandlerFunc(scoreHandler.Submit))).Methods(http.MethodPost)

	// Content
	r.HandleFunc("/subjects", contentHandler.ListSubjects).Methods(http.MethodGet)
	r.HandleFunc("/subjects/{id}/words", contentHandler.ListWords).Methods(http.MethodGet)
	r.Handle("/subjects/{id}/words/random", player(http.HandlerFunc(contentHandler.RandomWord))).Methods(http.MethodGet)

	// Admin session routes must be registered before the guarded subrouter
	r.Handle("/admin/login", throttled(http.HandlerFunc(authHandler.AdminLogin))).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", authHandler.AdminLogout).Methods(http.MethodPost)
	r.Handle("/admin/bootstrap", throttled(http.HandlerFunc(authHandler.Bootstrap))).Methods(http.MethodPost)

	// Everything else under /admin requires an admin
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/me", authHandler.AdminMe).Methods(http.MethodGet)
	admin.HandleFunc("/players", adminHandler.ListPlayers).Methods(http.MethodGet)
	admin.HandleFunc("/players/{id}", adminHandler.GetPlayer).Methods(http.MethodGet)
	admin.HandleFunc("/players/{id}", adminHandler.DeletePlayer).Methods(http.MethodDelete)
	admin.HandleFunc("/players/{id}/status", adminHandler.SetPlayerStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/subjects", contentHandler.CreateSubject).Methods(http.MethodPost)
	admin.HandleFunc("/subjects/{id}", contentHandler.DeleteSubject).Methods(http.MethodDelete)
	admin.HandleFunc("/words", contentHandler.CreateWord).Methods(http.MethodPost)
	admin.HandleFunc("/words/{id}", contentHandler.DeleteWord).Methods(http.MethodDelete)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.StatusOK(w, "ok")
}
