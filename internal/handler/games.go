package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubstats/internal/domain"
)

// CreateGame records a new game on the schedule
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var game domain.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	created, err := h.games.Create(r.Context(), &game)
	if err != nil {
		h.respondError(w, err, "failed to create game")
		return
	}

	h.writeCreated(w, created)
}

// GetGame returns a single game by id
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	game, err := h.games.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to get game")
		return
	}

	h.writeSuccess(w, game)
}

// ListGames returns the schedule with optional filters and pagination
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := domain.GameListOptions{
		Season:   q.Get("season"),
		HomeAway: domain.HomeAway(q.Get("home_away")),
		Offset:   queryInt(r, "offset", 0),
		Limit:    queryInt(r, "limit", 0),
	}

	games, err := h.games.List(r.Context(), opts)
	if err != nil {
		h.respondError(w, err, "failed to list games")
		return
	}

	h.writeSuccess(w, games)
}

// UpdateGame applies a partial update to a game
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var patch domain.GamePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	game, err := h.games.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err, "failed to update game")
		return
	}

	h.writeSuccess(w, game)
}

// DeleteGame removes a game from the schedule
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.games.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete game")
		return
	}

	h.writeSuccess(w, map[string]string{"message": "game deleted"})
}
