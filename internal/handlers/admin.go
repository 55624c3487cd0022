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

// AdminHandler handles user management. All routes require admin and
// are unreachable in demo mode.
type AdminHandler struct {
	deps *Dependencies
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(deps *Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// ListUsers returns all users with their property counts.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.UserRepo.GetAll()
	if err != nil {
		respondError(w, apperrors.Internal("loading users", err))
		return
	}

	type userRow struct {
		*models.User
		PropertyCount int `json:"property_count"`
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		count, _ := h.deps.PropertyRepo.CountByUserID(u.ID)
		rows = append(rows, userRow{User: u, PropertyCount: count})
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": rows})
}

// GetUser returns one user with property count and recent audit
// activity.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.deps.UserRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading user", err))
		return
	}
	if user == nil {
		respondError(w, apperrors.NotFound("user"))
		return
	}

	count, err := h.deps.PropertyRepo.CountByUserID(id)
	if err != nil {
		respondError(w, apperrors.Internal("counting properties", err))
		return
	}
	audit, err := h.deps.AuditService.GetByUserID(id, 20, 0)
	if err != nil {
		respondError(w, apperrors.Internal("loading audit entries", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":           user,
		"property_count": count,
		"recent_audit":   audit,
	})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// CreateUser adds a user. New users must change the password the admin
// set for them on first login.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	var req createUserRequest
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
		respondError(w, apperrors.Conflict("a user with this email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperrors.Internal("hashing password", err))
		return
	}

	user := &models.User{
		Email:              req.Email,
		PasswordHash:       hash,
		Name:               req.Name,
		IsAdmin:            req.IsAdmin,
		MustChangePassword: true,
	}
	id, err := h.deps.UserRepo.Create(user)
	if err != nil {
		respondError(w, apperrors.Internal("creating user", err))
		return
	}
	user.ID = id

	h.deps.AuditService.LogAction(id, actor.ID, services.AuditAdminUserCreated, "user", id, nil, r.RemoteAddr)
	respondJSON(w, http.StatusCreated, user)
}

// DeleteUser removes a user and all their data. Admins cannot delete
// themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if id == actor.ID {
		respondError(w, apperrors.Validation("cannot delete your own account"))
		return
	}

	user, err := h.deps.UserRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading user", err))
		return
	}
	if user == nil {
		respondError(w, apperrors.NotFound("user"))
		return
	}

	h.deps.SessionManager.DeleteByUserID(id)
	if err := h.deps.UserRepo.Delete(id); err != nil {
		respondError(w, apperrors.Internal("deleting user", err))
		return
	}

	h.deps.AuditService.LogAction(id, actor.ID, services.AuditAdminUserDeleted, "user", id, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword sets a temporary password for a user and forces a
// change on next login.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r)

	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if len(req.Password) < 8 {
		respondError(w, apperrors.ValidationField("password", "must be at least 8 characters"))
		return
	}

	user, err := h.deps.UserRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading user", err))
		return
	}
	if user == nil {
		respondError(w, apperrors.NotFound("user"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, apperrors.Internal("hashing password", err))
		return
	}
	if err := h.deps.UserRepo.UpdatePassword(id, hash, true); err != nil {
		respondError(w, apperrors.Internal("resetting password", err))
		return
	}
	h.deps.SessionManager.DeleteByUserID(id)

	h.deps.AuditService.LogAction(id, actor.ID, services.AuditAdminPasswordReset, "user", id, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}

// AuditLog returns the most recent audit entries.
func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}

	entries, err := h.deps.AuditService.GetRecent(limit)
	if err != nil {
		respondError(w, apperrors.Internal("loading audit log", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
