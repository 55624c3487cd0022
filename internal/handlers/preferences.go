package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/middleware"
)

// PreferenceHandler serves per-user key-value settings.
type PreferenceHandler struct {
	deps *Dependencies
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(deps *Dependencies) *PreferenceHandler {
	return &PreferenceHandler{deps: deps}
}

const maxPreferenceValueLen = 4096

// List returns all preferences for the user as a key-value map.
func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	prefs, err := h.deps.PreferenceRepo.GetAll(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading preferences", err))
		return
	}

	out := make(map[string]string, len(prefs))
	for _, pref := range prefs {
		out[pref.Key] = pref.Value
	}
	respondJSON(w, http.StatusOK, map[string]any{"preferences": out})
}

// Get returns a single preference value.
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	key := chi.URLParam(r, "key")

	pref, err := h.deps.PreferenceRepo.Get(user.ID, key)
	if err != nil {
		respondError(w, apperrors.Internal("loading preference", err))
		return
	}
	if pref == nil {
		respondError(w, apperrors.NotFound("preference"))
		return
	}
	respondJSON(w, http.StatusOK, pref)
}

type setPreferenceRequest struct {
	Value string `json:"value"`
}

// Set stores a preference value.
func (h *PreferenceHandler) Set(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	key := chi.URLParam(r, "key")

	if !middleware.ValidateLength(key, 1, 128) {
		respondError(w, apperrors.ValidationField("key", "must be 1-128 characters"))
		return
	}

	var req setPreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if len(req.Value) > maxPreferenceValueLen {
		respondError(w, apperrors.ValidationField("value", "too long"))
		return
	}

	if err := h.deps.PreferenceRepo.Set(user.ID, key, req.Value); err != nil {
		respondError(w, apperrors.Internal("saving preference", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Delete removes a preference key.
func (h *PreferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	key := chi.URLParam(r, "key")

	if err := h.deps.PreferenceRepo.Delete(user.ID, key); err != nil {
		respondError(w, apperrors.Internal("deleting preference", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
