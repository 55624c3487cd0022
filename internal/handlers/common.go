// Package handlers provides the JSON HTTP handlers for rentfolio.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	apperrors "rentfolio/internal/errors"
)

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logrus.WithError(err).Error("failed to encode response")
		}
	}
}

// respondError maps an error to its HTTP status and writes a JSON error
// body. Internal errors are logged with their cause but reported to the
// client generically.
func respondError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
		message = "internal server error"
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body: " + err.Error())
	}
	return nil
}

// urlParamID extracts a positive int64 URL parameter.
func urlParamID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryDate reads an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperrors.ValidationField(name, "must be YYYY-MM-DD")
	}
	return &t, nil
}

// parseOptionalDate parses a YYYY-MM-DD string from a request body.
// Empty means unset.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperrors.ValidationField(field, "must be YYYY-MM-DD")
	}
	return &t, nil
}
