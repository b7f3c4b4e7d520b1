package handler

import (
	"net/http"

	"github.com/kopimi-kafe/backend/internal/hours"
)

type statusResponse struct {
	hours.Status
	Configured bool `json:"configured"`
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.status.Current()
	if !ok {
		// nothing evaluated yet, or hours were only just configured
		status, ok = h.status.Refresh()
	}

	h.successResponse(w, r, "shop status", statusResponse{Status: status, Configured: ok})
}
