package handler

import (
	"net/http"

	"github.com/kopimi-kafe/backend/internal/domain"
)

// GetDatabase answers with the whole snapshot, without the envelope. Member
// password hashes are blanked.
func (h *Handler) GetDatabase(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.store.Snapshot().Redacted())
}

// SaveDatabase replaces the whole snapshot and writes it through before
// answering, so the response reflects the durable outcome.
func (h *Handler) SaveDatabase(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.Snapshot
	if err := h.readJSON(w, r, &snapshot); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// clients only ever see redacted members
	snapshot.KeepMemberSecrets(h.store.Snapshot())

	if err := h.store.Replace(&snapshot); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.store.Flush(r.Context()); err != nil {
		h.logInternalServerError(r, err)
		h.writeJSON(w, r, http.StatusInternalServerError, Response{
			Success: false,
			Message: "Failed to save data.",
		})
		return
	}

	h.successResponse(w, r, "Data saved.", nil)
}
