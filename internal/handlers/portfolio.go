package handlers

import (
	"net/http"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/middleware"
)

// PortfolioHandler serves portfolio-level aggregates and history.
type PortfolioHandler struct {
	deps *Dependencies
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(deps *Dependencies) *PortfolioHandler {
	return &PortfolioHandler{deps: deps}
}

// Summary returns derived metrics aggregated across the user's active
// properties.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	summary, err := h.deps.MetricsService.GetPortfolioSummary(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("computing portfolio summary", err))
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// History returns the user's snapshot time series. Defaults to the
// trailing year; ?days=N narrows or widens the window.
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	days := queryInt(r, "days", 365)
	snapshots, err := h.deps.SnapshotService.History(user.ID, days)
	if err != nil {
		respondError(w, apperrors.Internal("loading history", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"days":      days,
		"snapshots": snapshots,
	})
}

// Snapshot captures an on-demand snapshot of the user's portfolio
// instead of waiting for the nightly run.
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if err := h.deps.SnapshotService.CaptureForUser(user.ID); err != nil {
		respondError(w, apperrors.Internal("capturing snapshot", err))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "captured"})
}
