package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
)

// notifyShop queues an e-mail to the shop address from settings. Failures are
// logged and otherwise ignored, the triggering change is already stored.
func (h *Handler) notifyShop(r *http.Request, mailType string, data any) {
	to := store.Get(h.store, store.Settings).Email
	if to == "" {
		return
	}

	msg := domain.MailMessage{Type: mailType, To: to, Data: data}
	if err := h.notifier.Notify(context.WithoutCancel(r.Context()), msg); err != nil {
		slog.Warn("failed to queue notification", "type", mailType, "error", err)
	}
}
