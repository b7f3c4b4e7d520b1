package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/chat"
	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/metrics"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func baristaID(b domain.Barista) string { return b.ID }

type baristaRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	Bio           string   `json:"bio" validate:"required,max=1000"`
	Image         string   `json:"image" validate:"required"`
	Instagram     string   `json:"instagram" validate:"omitempty,max=100"`
	FavoriteDrink string   `json:"favoriteDrink" validate:"omitempty,max=100"`
	Skills        []string `json:"skills" validate:"omitempty,max=20,dive,required,max=50"`
}

func (req baristaRequest) apply(b *domain.Barista) {
	b.Name = req.Name
	b.Bio = req.Bio
	b.Image = req.Image
	b.Instagram = strings.TrimPrefix(req.Instagram, "@")
	b.FavoriteDrink = req.FavoriteDrink
	b.Skills = req.Skills
}

func (h *Handler) GetBaristas(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "baristas", store.Get(h.store, store.Baristas))
}

func (h *Handler) GetBarista(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BaristaCtxKey).(domain.Barista)
	h.successResponse(w, r, "barista", b)
}

func (h *Handler) CreateBarista(w http.ResponseWriter, r *http.Request) {
	var req baristaRequest
	if !h.readValid(w, r, &req) {
		return
	}

	b := domain.Barista{ID: utils.NewID("barista")}
	req.apply(&b)
	appendRecord(h.store, store.Baristas, b)

	h.createdResponse(w, r, "barista created", b)
}

func (h *Handler) UpdateBarista(w http.ResponseWriter, r *http.Request) {
	var req baristaRequest
	if !h.readValid(w, r, &req) {
		return
	}

	b, err := updateRecord(h.store, store.Baristas, chi.URLParam(r, "id"), baristaID, req.apply)
	if err != nil {
		h.notFound(w, r, "barista")
		return
	}

	h.successResponse(w, r, "barista updated", b)
}

// DeleteBarista removes the barista together with their rota entries.
func (h *Handler) DeleteBarista(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.Mutate(func(s *domain.Snapshot) error {
		i := indexByID(s.Baristas, id, baristaID)
		if i < 0 {
			return errRecordNotFound
		}
		s.Baristas = slices.Delete(s.Baristas, i, i+1)
		s.Schedules = slices.DeleteFunc(s.Schedules, func(e domain.Schedule) bool {
			return e.BaristaID == id
		})
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errRecordNotFound):
			h.notFound(w, r, "barista")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "barista deleted", nil)
}

func (h *Handler) SendCustomerMessage(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BaristaCtxKey).(domain.Barista)

	var req struct {
		CustomerName string `json:"customerName" validate:"required,max=100"`
		Message      string `json:"message" validate:"required,max=1000"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	msg := domain.CustomerMessage{
		ID:           utils.NewID("msg"),
		CustomerName: req.CustomerName,
		BaristaID:    b.ID,
		BaristaName:  b.Name,
		Message:      req.Message,
		Date:         h.now().UTC().Format(time.RFC3339),
		Status:       domain.MessageUnread,
	}
	prependRecord(h.store, store.CustomerMessages, msg)

	h.notifyShop(r, domain.MailNewCustomerMessage, domain.CustomerMessageMailData{
		CustomerName: msg.CustomerName,
		BaristaName:  msg.BaristaName,
		Message:      msg.Message,
	})

	h.createdResponse(w, r, "message sent to "+b.Name, msg)
}

func (h *Handler) ChatWithBarista(w http.ResponseWriter, r *http.Request) {
	b := r.Context().Value(BaristaCtxKey).(domain.Barista)

	var req struct {
		History  []chat.Message `json:"history" validate:"max=50,dive"`
		Question string         `json:"question" validate:"required,max=2000"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	reply, err := h.chat.Reply(r.Context(), b, req.History, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrUnavailable):
			metrics.IncChatRequest("unavailable")
			h.errorResponse(w, r, http.StatusServiceUnavailable, "Chat is not available")
		default:
			metrics.IncChatRequest("failed")
			h.internalServerError(w, r, err)
		}
		return
	}
	metrics.IncChatRequest("ok")

	h.successResponse(w, r, "reply", chat.Message{Role: chat.RoleAssistant, Content: reply})
}
