package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ctfe/ctfe/internal/api/handler"
	"github.com/ctfe/ctfe/internal/api/middleware"
	"github.com/ctfe/ctfe/internal/model"
	"github.com/ctfe/ctfe/internal/services/auth"
	"github.com/ctfe/ctfe/internal/services/challenge"
	"github.com/ctfe/ctfe/internal/services/team"
	"github.com/ctfe/ctfe/internal/services/user"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	AuthService      *auth.Service
	TeamController   *team.Controller
	ChallengeService *challenge.Service
	UserService      *user.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	teamHandler := handler.NewTeamHandler(cfg.TeamController, cfg.ChallengeService, cfg.UserService)
	challengeHandler := handler.NewChallengeHandler(cfg.ChallengeService, cfg.AuthService)
	userHandler := handler.NewUserHandler(cfg.UserService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	adminMiddleware := middleware.RequireRole(cfg.AuthService, model.RoleAdmin)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required to register or log in)
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)

	// Team routes (all require auth). Static paths are registered before
	// the {id} routes so "invites" and "quit" are not taken as team ids.
	teams := api.PathPrefix("/teams").Subrouter()
	teams.Use(authMiddleware)
	teams.HandleFunc("", teamHandler.Create).Methods(http.MethodPost)
	teams.HandleFunc("/invites", teamHandler.ListInvites).Methods(http.MethodGet)
	teams.HandleFunc("/quit", teamHandler.Quit).Methods(http.MethodPost)
	teams.HandleFunc("/{id}", teamHandler.Get).Methods(http.MethodGet)
	teams.HandleFunc("/{id}/invites", teamHandler.Invite).Methods(http.MethodPost)
	teams.HandleFunc("/{id}/invites/{user_id}", teamHandler.RescindInvite).Methods(http.MethodDelete)
	teams.HandleFunc("/{id}/join", teamHandler.Join).Methods(http.MethodPost)
	teams.HandleFunc("/{id}/attempts", teamHandler.ListAttempts).Methods(http.MethodGet)

	// Challenge routes (all require auth; create/delete checks are in the handlers)
	challenges := api.PathPrefix("/challenges").Subrouter()
	challenges.Use(authMiddleware)
	challenges.HandleFunc("", challengeHandler.Create).Methods(http.MethodPost)
	challenges.HandleFunc("", challengeHandler.List).Methods(http.MethodGet)
	challenges.HandleFunc("/{id}", challengeHandler.Get).Methods(http.MethodGet)
	challenges.HandleFunc("/{id}", challengeHandler.Delete).Methods(http.MethodDelete)
	challenges.HandleFunc("/{id}/attempts", challengeHandler.SubmitAttempt).Methods(http.MethodPost)

	// Administrative user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.Use(adminMiddleware)
	users.HandleFunc("", userHandler.List).Methods(http.MethodGet)
	users.HandleFunc("/{id}", userHandler.Get).Methods(http.MethodGet)
	users.HandleFunc("/{id}/role", userHandler.UpdateRole).Methods(http.MethodPatch)
	users.HandleFunc("/{id}", userHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
