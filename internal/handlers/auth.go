package handlers

import (
	"net/http"
	"strings"

	"rentfolio/internal/auth"
	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/middleware"
	"rentfolio/internal/models"
	"rentfolio/internal/services"
)

// AuthHandler handles login, logout and password management.
type AuthHandler struct {
	deps *Dependencies
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID             int64  `json:"user_id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	IsAdmin            bool   `json:"is_admin"`
	MustChangePassword bool   `json:"must_change_password"`
	Token              string `json:"token,omitempty"`
}

// Login authenticates a user and starts a session. When the client asks
// for a token (?token=1) it also gets a bearer token for API use.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.deps.UserRepo.GetByEmail(req.Email)
	if err != nil {
		respondError(w, apperrors.Internal("looking up user", err))
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		// Identical response for unknown email and wrong password.
		respondError(w, apperrors.Unauthorized("invalid email or password"))
		return
	}

	session, err := h.deps.SessionManager.Create(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("creating session", err))
		return
	}
	middleware.SetSessionCookie(w, session.ID, int(h.deps.SessionManager.Duration().Seconds()))

	resp := loginResponse{
		UserID:             user.ID,
		Name:               user.Name,
		Email:              user.Email,
		IsAdmin:            user.IsAdmin,
		MustChangePassword: user.MustChangePassword,
	}
	if r.URL.Query().Get("token") == "1" {
		token, err := h.deps.TokenManager.Issue(user.ID)
		if err != nil {
			respondError(w, apperrors.Internal("issuing token", err))
			return
		}
		resp.Token = token
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditUserLogin, "user", user.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, resp)
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates a new account and starts a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.deps.DemoMode {
		respondError(w, apperrors.Forbidden("registration is disabled in demo mode"))
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !middleware.ValidateEmail(req.Email) {
		respondError(w, apperrors.ValidationField("email", "is not a valid address"))
		return
	}
	req.Name = middleware.SanitizeString(req.Name)
	if !middleware.ValidateRequired(req.Name) {
		respondError(w, apperrors.ValidationField("name", "is required"))
		return
	}
	if len(req.Password) < 8 {
		respondError(w, apperrors.ValidationField("password", "must be at least 8 characters"))
		return
	}

	existing, err := h.deps.UserRepo.GetByEmail(req.Email)
	if err != nil {
		respondError(w, apperrors.Internal("looking up user", err))
		return
	}
	if existing != nil {
		respondError(w, apperrors.Conflict("an account with this email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperrors.Internal("hashing password", err))
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	id, err := h.deps.UserRepo.Create(user)
	if err != nil {
		respondError(w, apperrors.Internal("creating user", err))
		return
	}
	user.ID = id

	session, err := h.deps.SessionManager.Create(id)
	if err != nil {
		respondError(w, apperrors.Internal("creating session", err))
		return
	}
	middleware.SetSessionCookie(w, session.ID, int(h.deps.SessionManager.Duration().Seconds()))

	respondJSON(w, http.StatusCreated, loginResponse{
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	})
}

// Token exchanges credentials for a bearer token without starting a
// cookie session. For programmatic API clients.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.deps.UserRepo.GetByEmail(req.Email)
	if err != nil {
		respondError(w, apperrors.Internal("looking up user", err))
		return
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(w, apperrors.Unauthorized("invalid email or password"))
		return
	}

	token, err := h.deps.TokenManager.Issue(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("issuing token", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditUserLogin, "user", user.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout ends the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.deps.SessionManager.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)

	if user := middleware.GetUser(r); user != nil {
		h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditUserLogout, "user", user.ID, nil, r.RemoteAddr)
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		respondError(w, apperrors.Unauthorized("authentication required"))
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword updates the user's password and invalidates all other
// sessions.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		respondError(w, apperrors.Unauthorized("authentication required"))
		return
	}
	if h.deps.DemoMode {
		respondError(w, apperrors.Forbidden("password changes are disabled in demo mode"))
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		respondError(w, apperrors.Unauthorized("current password is incorrect"))
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(w, apperrors.ValidationField("new_password", "must be at least 8 characters"))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, apperrors.Internal("hashing password", err))
		return
	}
	if err := h.deps.UserRepo.UpdatePassword(user.ID, hash, false); err != nil {
		respondError(w, apperrors.Internal("updating password", err))
		return
	}

	// New credentials, fresh session everywhere.
	h.deps.SessionManager.DeleteByUserID(user.ID)
	session, err := h.deps.SessionManager.Create(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("creating session", err))
		return
	}
	middleware.SetSessionCookie(w, session.ID, int(h.deps.SessionManager.Duration().Seconds()))

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditPasswordChanged, "user", user.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
