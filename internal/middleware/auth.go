package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"athlete-connect-backend/internal/services"
)

type contextKey string

const sessionKey contextKey = "session"

// AuthMiddleware resolves the bearer token to an authenticated session
func AuthMiddleware(sessions *services.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			session, err := sessions.Authenticate(parts[1])
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session *services.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession extracts the session from context
func GetSession(ctx context.Context) *services.Session {
	session, ok := ctx.Value(sessionKey).(*services.Session)
	if !ok {
		return nil
	}
	return session
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
