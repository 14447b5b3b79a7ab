package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AriadnaNaya/BDD2/internal/domain"
	"github.com/AriadnaNaya/BDD2/internal/identity"
	"github.com/AriadnaNaya/BDD2/internal/session"
)

type SessionStore interface {
	SessionEnsurer
	Authenticate(ctx context.Context, sessionID string, user domain.User) error
	Identity(ctx context.Context, sessionID string) (domain.Identity, error)
	Clear(ctx context.Context, sessionID string) error
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthHandler struct {
	sessions SessionStore
	users    UserFinder
}

func NewAuthHandler(sessions SessionStore, users UserFinder) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		users:    users,
	}
}

type LoginRequestDTO struct {
	Email string `json:"email"`
}

type SessionResponseDTO struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_email", "email is required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user_not_found", "no user with that email")
			return
		}
		log.Printf("login: find user by email failed: %v", err)
		respondError(w, http.StatusBadGateway, "identity_unavailable", "user lookup failed")
		return
	}

	if err := h.sessions.Authenticate(r.Context(), sessionID, *user); err != nil {
		log.Printf("login: authenticate session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "session_unavailable", "could not bind session")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponseDTO{
		SessionID: sessionID,
		UserID:    user.ID,
		UserEmail: user.Email,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	if err := h.sessions.Clear(r.Context(), sessionID); err != nil {
		log.Printf("logout: clear session %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "session_unavailable", "could not clear session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFromContext(r.Context())

	ident, err := h.sessions.Identity(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "session has no bound identity")
			return
		}
		log.Printf("session: identity lookup for %s failed: %v", sessionID, err)
		respondError(w, http.StatusBadGateway, "session_unavailable", "session lookup failed")
		return
	}

	respondJSON(w, http.StatusOK, SessionResponseDTO{
		SessionID: sessionID,
		UserID:    ident.UserID,
		UserEmail: ident.Email,
	})
}
