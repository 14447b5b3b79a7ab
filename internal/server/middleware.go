package server

import (
	"context"
	"log"
	"net/http"
	"time"
)

const sessionCookieName = "session_id"

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionEnsurer validates or mints the opaque session token carried by
// the cookie.
type SessionEnsurer interface {
	Ensure(ctx context.Context, presented string) (string, error)
}

// SessionMiddleware guarantees every request carries a session id. A valid
// presented cookie is kept; anything else is replaced with a fresh token.
// The cookie is plain http, no signing.
func SessionMiddleware(sessions SessionEnsurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var presented string
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				presented = cookie.Value
			}

			sessionID, err := sessions.Ensure(r.Context(), presented)
			if err != nil {
				log.Printf("session ensure failed: %v", err)
				respondError(w, http.StatusBadGateway, "session_unavailable", "session store unavailable")
				return
			}

			if sessionID != presented {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
