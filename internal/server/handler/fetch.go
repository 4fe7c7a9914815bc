package handler

import (
	"errors"
	"net/http"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// FetchTrigger requests an immediate fetch run; the scheduler implements it.
type FetchTrigger interface {
	TriggerFetch() error
}

// FetchHandler exposes the manual fetch trigger.
type FetchHandler struct {
	trigger FetchTrigger
}

// NewFetchHandler creates a FetchHandler.
func NewFetchHandler(trigger FetchTrigger) *FetchHandler {
	return &FetchHandler{trigger: trigger}
}

// TriggerFetch requests a run now. A run already in flight answers 409; its
// outcome stands for this request too.
func (h *FetchHandler) TriggerFetch(w http.ResponseWriter, r *http.Request) {
	err := h.trigger.TriggerFetch()
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	case errors.Is(err, domain.ErrAlreadyRunning):
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already running"})
	case errors.Is(err, domain.ErrSchedulerStopped):
		writeError(w, http.StatusServiceUnavailable, "scheduler stopped")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
