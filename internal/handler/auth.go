package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clubstats/internal/domain"
)

// Signup registers a new account
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	user, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "signup failed")
		return
	}

	h.writeCreated(w, user)
}

// Login exchanges credentials for a bearer token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.respondError(w, err, "login failed")
		return
	}

	h.writeSuccess(w, token)
}

// Me returns the account behind the bearer token
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		h.writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized)
		return
	}
	h.writeSuccess(w, user)
}
