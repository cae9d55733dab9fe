package httpapi

import (
	"context"
	"net/http"
	"strings"

	"strategy-studio/internal/domain"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "token"
)

// requireAuth resolves the bearer token and attaches the user and session to
// the request context. Requests without a valid token get 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		user, sess, err := s.auth.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, sessionContextKey, sess)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header. WebSocket
// clients cannot set headers from the browser, so the stream endpoint also
// accepts a token query parameter.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func requestUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

func requestSession(r *http.Request) *domain.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*domain.Session)
	return sess
}

func requestToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenContextKey).(string)
	return token
}
