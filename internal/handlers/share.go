package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/middleware"
	"rentfolio/internal/services"
)

// ShareHandler mints public share links for properties and serves the
// read-only shared view.
type ShareHandler struct {
	deps *Dependencies
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(deps *Dependencies) *ShareHandler {
	return &ShareHandler{deps: deps}
}

// Enable mints (or returns the existing) share token for a property and
// the public URL it maps to.
func (h *ShareHandler) Enable(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	propertyID, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.deps.PropertyRepo.GetByID(propertyID)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil || p.UserID != user.ID {
		respondError(w, apperrors.NotFound("property"))
		return
	}

	if p.ShareToken == "" {
		token := uuid.NewString()
		if err := h.deps.PropertyRepo.SetShareToken(p.ID, token); err != nil {
			respondError(w, apperrors.Internal("saving share token", err))
			return
		}
		p.ShareToken = token
		h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditPropertyShared, "property", p.ID, nil, r.RemoteAddr)
	}

	shareURL := fmt.Sprintf("%s/share/%s", h.deps.BaseURL, p.ShareToken)
	respondJSON(w, http.StatusOK, map[string]string{
		"share_token": p.ShareToken,
		"share_url":   shareURL,
		"qr_url":      shareURL + "/qr.png",
	})
}

// Disable revokes a property's share token.
func (h *ShareHandler) Disable(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	propertyID, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.deps.PropertyRepo.GetByID(propertyID)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil || p.UserID != user.ID {
		respondError(w, apperrors.NotFound("property"))
		return
	}

	if err := h.deps.PropertyRepo.SetShareToken(p.ID, ""); err != nil {
		respondError(w, apperrors.Internal("revoking share token", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
}

// View serves the public read-only metrics for a shared property. No
// authentication; the token is the capability.
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	p, err := h.deps.PropertyRepo.GetByShareToken(token)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil {
		respondError(w, apperrors.NotFound("shared property"))
		return
	}

	loans, err := h.deps.LoanRepo.GetByPropertyID(p.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading loans", err))
		return
	}
	metrics := h.deps.MetricsService.ComputeMetrics(p, loans, time.Now())

	// The shared view exposes derived numbers, never loan balances or
	// the owner's identity.
	respondJSON(w, http.StatusOK, map[string]any{
		"address":              metrics.Address,
		"property_type":        p.PropertyType,
		"gross_income":         metrics.GrossIncome,
		"operating_expenses":   metrics.OperatingExpenses,
		"net_operating_income": metrics.NetOperatingInc,
		"cash_flow":            metrics.CashFlow,
		"annual_depreciation":  metrics.Depreciation.AnnualDepreciation,
		"completeness":         metrics.Completeness,
	})
}

// QR serves a PNG QR code pointing at the shared view.
func (h *ShareHandler) QR(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	p, err := h.deps.PropertyRepo.GetByShareToken(token)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil {
		respondError(w, apperrors.NotFound("shared property"))
		return
	}

	shareURL := fmt.Sprintf("%s/share/%s", h.deps.BaseURL, token)
	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		respondError(w, apperrors.Internal("generating QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
