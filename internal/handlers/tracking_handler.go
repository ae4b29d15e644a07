package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openmenu/storefront/internal/middleware"
	"github.com/openmenu/storefront/internal/session"
	"github.com/openmenu/storefront/internal/tracking"
)

// TrackingHandler exposes the order-tracking page data. Polling runs in a
// per-session tracker that starts on first view and stops when the order
// reaches a terminal status, the viewer leaves, or the session expires.
type TrackingHandler struct {
	fetcher      tracking.Fetcher
	pollInterval time.Duration
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(fetcher tracking.Fetcher, pollInterval, fetchTimeout time.Duration, logger *slog.Logger) *TrackingHandler {
	return &TrackingHandler{
		fetcher:      fetcher,
		pollInterval: pollInterval,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Get handles GET /api/orders/{orderId}
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, orderID, ok := h.sessionAndOrder(w, r)
	if !ok {
		return
	}

	tracker := sess.TrackerFor(orderID, func() *tracking.Tracker {
		return tracking.New(h.fetcher, orderID, h.pollInterval, h.fetchTimeout, h.logger)
	})
	writeJSON(w, http.StatusOK, tracker.Snapshot())
}

// Refresh handles POST /api/orders/{orderId}/refresh: cancels the pending
// poll, fetches now and reschedules.
func (h *TrackingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, orderID, ok := h.sessionAndOrder(w, r)
	if !ok {
		return
	}

	tracker, found := sess.Tracker(orderID)
	if !found {
		writeError(w, http.StatusNotFound, "Order is not being tracked")
		return
	}
	tracker.Refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

// DismissWarning handles POST /api/orders/{orderId}/warning/dismiss
func (h *TrackingHandler) DismissWarning(w http.ResponseWriter, r *http.Request) {
	sess, orderID, ok := h.sessionAndOrder(w, r)
	if !ok {
		return
	}

	tracker, found := sess.Tracker(orderID)
	if !found {
		writeError(w, http.StatusNotFound, "Order is not being tracked")
		return
	}
	tracker.DismissWarning()
	writeJSON(w, http.StatusOK, tracker.Snapshot())
}

// Stop handles DELETE /api/orders/{orderId}: the browser left the tracking
// page, so pending polls are cancelled.
func (h *TrackingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	sess, orderID, ok := h.sessionAndOrder(w, r)
	if !ok {
		return
	}

	sess.StopTracker(orderID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackingHandler) sessionAndOrder(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, "", false
	}

	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "Invalid ID supplied")
		return nil, "", false
	}
	return sess, orderID, true
}
