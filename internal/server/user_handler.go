package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/identity"
)

type UserHandler struct {
	users identity.UserRepository
}

func NewUserHandler(users identity.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("users list failed: %v", err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user listing failed")
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "unknown user")
			return
		}
		log.Printf("user get %s failed: %v", userID, err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user lookup failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if user.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_user", "email is required")
		return
	}

	if err := h.users.Create(r.Context(), &user); err != nil {
		log.Printf("user create failed: %v", err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user create failed")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	user.ID = userID

	if err := h.users.Update(r.Context(), &user); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "unknown user")
			return
		}
		log.Printf("user update %s failed: %v", userID, err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user update failed")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	if err := h.users.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "unknown user")
			return
		}
		log.Printf("user delete %s failed: %v", userID, err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
