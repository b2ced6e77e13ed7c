package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clubstats/internal/domain"
	"github.com/clubstats/internal/service"
	"github.com/clubstats/internal/websocket"
)

// Handler provides HTTP handlers for the club stats API
type Handler struct {
	players *service.PlayerService
	games   *service.GameService
	stats   *service.StatsService
	auth    *service.AuthService
	hub     *websocket.Hub
	logger  *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	players *service.PlayerService,
	games *service.GameService,
	stats *service.StatsService,
	auth *service.AuthService,
	hub *websocket.Hub,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		players: players,
		games:   games,
		stats:   stats,
		auth:    auth,
		hub:     hub,
		logger:  logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// WebSocket endpoint
	r.Get("/ws", h.HandleWebSocket)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.With(h.requireAuth).Get("/me", h.Me)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/{playerID}", h.GetPlayer)
			r.With(h.requireAuth).Post("/", h.CreatePlayer)
			r.With(h.requireAuth).Patch("/{playerID}", h.UpdatePlayer)
			r.With(h.requireAuth).Delete("/{playerID}", h.DeletePlayer)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Get("/{gameID}", h.GetGame)
			r.With(h.requireAuth).Post("/", h.CreateGame)
			r.With(h.requireAuth).Patch("/{gameID}", h.UpdateGame)
			r.With(h.requireAuth).Delete("/{gameID}", h.DeleteGame)
		})

		// Stats writes are deliberately not token-gated
		r.Route("/stats", func(r chi.Router) {
			r.Post("/games/{gameID}/players/{playerID}", h.CreatePlayerStats)
			r.Post("/games", h.CreateGameStats)
			r.Patch("/players/{playerID}/games/{gameID}", h.UpsertPlayerStats)
			r.Patch("/games/{gameID}", h.UpsertGameStats)
			r.Get("/players/{playerID}/games/{gameID}", h.GetPlayerStatsForGame)
			r.Get("/players/{playerID}/aggregate", h.GetPlayerAggregates)
			r.Get("/players/{playerID}", h.ListPlayerStats)
			r.Get("/games/{gameID}/full", h.GetFullGameStats)
			r.Get("/games/{gameID}", h.GetTeamStats)
			r.Delete("/players/{statsID}", h.DeletePlayerStats)
			r.Delete("/games/{statsID}", h.DeleteGameStats)
		})

		// WebSocket info endpoint
		r.Get("/ws/stats", h.GetWebSocketStats)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type contextKey string

const userContextKey contextKey = "current-user"

// requireAuth resolves the bearer token to an account and stores it on
// the request context; missing or bad credentials end the request with
// 401 before the handler runs
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized)
			return
		}

		user, err := h.auth.CurrentUser(r.Context(), token)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the authenticated account stored by requireAuth
func currentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeCreated writes a successful creation response
func (h *Handler) writeCreated(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// respondError maps a service failure onto the error taxonomy: 404 for
// missing entities, 409 for uniqueness conflicts, 422 for field
// validation, 401 for credential failures, 400 for malformed input, and
// a logged 500 for everything else
func (h *Handler) respondError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case domain.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, err)
	case domain.IsConflict(err):
		h.writeError(w, http.StatusConflict, err)
	case domain.IsValidation(err):
		h.writeError(w, http.StatusUnprocessableEntity, err)
	case domain.IsUnauthorized(err):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrInvalidRequest):
		h.writeError(w, http.StatusBadRequest, err)
	default:
		h.logger.Error(logMsg, "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// pathID parses a numeric path parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidRequest
	}
	return id, nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// queryFloat parses an optional float query parameter
func queryFloat(r *http.Request, name string) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// HandleWebSocket handles WebSocket upgrade requests
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.hub, h.logger, w, r)
}

// GetWebSocketStats returns WebSocket connection statistics
func (h *Handler) GetWebSocketStats(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]interface{}{
		"total_connections": h.hub.GetTotalConnections(),
	})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}
