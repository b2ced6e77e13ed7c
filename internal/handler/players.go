package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubstats/internal/domain"
)

// CreatePlayer adds a player to the roster
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player domain.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	created, err := h.players.Create(r.Context(), &player)
	if err != nil {
		h.respondError(w, err, "failed to create player")
		return
	}

	h.writeCreated(w, created)
}

// GetPlayer returns a single player by id
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	player, err := h.players.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to get player")
		return
	}

	h.writeSuccess(w, player)
}

// ListPlayers returns the roster with optional filters, sorting and pagination
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := domain.PlayerListOptions{
		Position:  q.Get("position"),
		MinHeight: queryFloat(r, "min_height"),
		MaxHeight: queryFloat(r, "max_height"),
		SortBy:    q.Get("sort_by"),
		SortOrder: domain.SortOrder(q.Get("sort_order")),
		Offset:    queryInt(r, "offset", 0),
		Limit:     queryInt(r, "limit", 0),
	}

	players, err := h.players.List(r.Context(), opts)
	if err != nil {
		h.respondError(w, err, "failed to list players")
		return
	}

	h.writeSuccess(w, players)
}

// UpdatePlayer applies a partial update to a player
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var patch domain.PlayerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	player, err := h.players.Update(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err, "failed to update player")
		return
	}

	h.writeSuccess(w, player)
}

// DeletePlayer removes a player from the roster
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.players.Delete(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete player")
		return
	}

	h.writeSuccess(w, map[string]string{"message": "player deleted"})
}
