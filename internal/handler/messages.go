package handler

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
)

func messageID(m domain.CustomerMessage) string { return m.ID }

// GetCustomerMessages lists messages, optionally only those with ?status=.
func (h *Handler) GetCustomerMessages(w http.ResponseWriter, r *http.Request) {
	messages := store.Get(h.store, store.CustomerMessages)

	if status := domain.MessageStatus(r.URL.Query().Get("status")); status != "" {
		messages = slices.DeleteFunc(messages, func(m domain.CustomerMessage) bool {
			return m.Status != status
		})
	}

	h.successResponse(w, r, "customer messages", messages)
}

func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	msg, err := updateRecord(h.store, store.CustomerMessages, chi.URLParam(r, "id"), messageID, func(m *domain.CustomerMessage) {
		m.Status = domain.MessageRead
	})
	if err != nil {
		h.notFound(w, r, "message")
		return
	}

	h.successResponse(w, r, "message marked as read", msg)
}

func (h *Handler) DeleteCustomerMessage(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.CustomerMessages, chi.URLParam(r, "id"), messageID); err != nil {
		h.notFound(w, r, "message")
		return
	}

	h.successResponse(w, r, "message deleted", nil)
}
