// Package middleware provides HTTP middleware for the rentfolio API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"rentfolio/internal/auth"
	"rentfolio/internal/models"
	"rentfolio/internal/repository"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey ContextKey = "user"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session_id"
)

// AuthMiddleware handles authentication for protected routes. It
// accepts either the session cookie or an Authorization bearer token.
type AuthMiddleware struct {
	sessionManager *auth.SessionManager
	tokenManager   *auth.TokenManager
	userRepo       *repository.UserRepository
	demoMode       bool
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(sm *auth.SessionManager, tm *auth.TokenManager, userRepo *repository.UserRepository, demoMode bool) *AuthMiddleware {
	return &AuthMiddleware{
		sessionManager: sm,
		tokenManager:   tm,
		userRepo:       userRepo,
		demoMode:       demoMode,
	}
}

// LoadUser resolves the current user from the session cookie or bearer
// token, if present. It never rejects the request; protected routes
// stack RequireAuth on top.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := m.resolveUserID(w, r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userRepo.GetByID(userID)
		if err != nil || user == nil {
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) resolveUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString := strings.TrimPrefix(header, "Bearer ")
		userID, err := m.tokenManager.Verify(tokenString)
		if err == nil {
			return userID, true
		}
		return 0, false
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return 0, false
	}
	userID, err := m.sessionManager.Validate(cookie.Value)
	if err != nil {
		// Stale cookie, clear it so the client stops sending it.
		clearSessionCookie(w)
		return 0, false
	}
	return userID, true
}

// RequireAuth rejects unauthenticated requests with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePasswordChanged blocks users flagged for a forced password
// change from everything except the password-change endpoint.
func (m *AuthMiddleware) RequirePasswordChanged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user != nil && user.MustChangePassword {
			writeJSONError(w, http.StatusForbidden, "password change required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin users with 403. Admin endpoints are
// disabled entirely in demo mode.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.demoMode {
			writeJSONError(w, http.StatusForbidden, "admin access is disabled in demo mode")
			return
		}

		user := GetUser(r)
		if user == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil if no user is authenticated.
func GetUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetSessionCookie sets the session cookie.
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	clearSessionCookie(w)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
