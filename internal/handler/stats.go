package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubstats/internal/domain"
)

// CreatePlayerStats records a fresh stat line for a player in a game
func (h *Handler) CreatePlayerStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var patch domain.PlayerStatsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	stats, err := h.stats.CreatePlayerStats(r.Context(), gameID, playerID, patch)
	if err != nil {
		h.respondError(w, err, "failed to create player stats")
		return
	}

	h.writeCreated(w, stats)
}

// UpsertPlayerStats merges a partial stat line into the player's row for
// the game, creating the row when none exists yet
func (h *Handler) UpsertPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var patch domain.PlayerStatsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	stats, err := h.stats.UpsertPlayerStats(r.Context(), playerID, gameID, patch)
	if err != nil {
		h.respondError(w, err, "failed to upsert player stats")
		return
	}

	h.writeSuccess(w, stats)
}

// GetPlayerStatsForGame returns one player's stat line for one game
func (h *Handler) GetPlayerStatsForGame(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	stats, err := h.stats.GetPlayerStatsForGame(r.Context(), playerID, gameID)
	if err != nil {
		h.respondError(w, err, "failed to get player stats")
		return
	}

	h.writeSuccess(w, stats)
}

// ListPlayerStats returns all stat lines for a player, optionally scoped
// to a season
func (h *Handler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	stats, err := h.stats.ListPlayerStats(r.Context(), playerID, r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, err, "failed to list player stats")
		return
	}

	h.writeSuccess(w, stats)
}

// GetPlayerAggregates returns scoring aggregates for a player
func (h *Handler) GetPlayerAggregates(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "playerID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	agg, err := h.stats.PlayerAggregates(r.Context(), playerID, r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, err, "failed to aggregate player stats")
		return
	}

	h.writeSuccess(w, agg)
}

// DeletePlayerStats removes a stat line by its row id
func (h *Handler) DeletePlayerStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "statsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.stats.DeletePlayerStatsByID(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete player stats")
		return
	}

	h.writeSuccess(w, map[string]string{"message": "player stats deleted"})
}

// CreateGameStats records team totals for a game
func (h *Handler) CreateGameStats(w http.ResponseWriter, r *http.Request) {
	var payload domain.GameStatsCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	stats, err := h.stats.CreateGameStats(r.Context(), payload)
	if err != nil {
		h.respondError(w, err, "failed to create game stats")
		return
	}

	h.writeCreated(w, stats)
}

// UpsertGameStats merges partial team totals into the game's row,
// creating the row when none exists yet
func (h *Handler) UpsertGameStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var patch domain.GameStatsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	stats, err := h.stats.UpsertGameStats(r.Context(), gameID, patch)
	if err != nil {
		h.respondError(w, err, "failed to upsert game stats")
		return
	}

	h.writeSuccess(w, stats)
}

// GetTeamStats returns the team totals recorded for a game, or null when
// the game exists but has no totals yet
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	stats, err := h.stats.GetTeamStatsForGame(r.Context(), gameID)
	if err != nil {
		h.respondError(w, err, "failed to get team stats")
		return
	}

	h.writeSuccess(w, stats)
}

// GetFullGameStats returns the game, its team totals and every player
// stat line recorded for it
func (h *Handler) GetFullGameStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r, "gameID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	full, err := h.stats.GetFullGameStats(r.Context(), gameID)
	if err != nil {
		h.respondError(w, err, "failed to get full game stats")
		return
	}

	h.writeSuccess(w, full)
}

// DeleteGameStats removes team totals by their row id
func (h *Handler) DeleteGameStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "statsID")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.stats.DeleteGameStatsByID(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete game stats")
		return
	}

	h.writeSuccess(w, map[string]string{"message": "game stats deleted"})
}
