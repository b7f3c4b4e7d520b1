package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func promotionID(p domain.Promotion) string { return p.ID }

type promotionRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	Image       string `json:"image"`
	ValidFrom   string `json:"validFrom" validate:"required"`
	ValidUntil  string `json:"validUntil" validate:"required"`
}

func (req promotionRequest) apply(p *domain.Promotion) {
	p.Title = req.Title
	p.Description = req.Description
	p.Image = req.Image
	p.ValidFrom = req.ValidFrom
	p.ValidUntil = req.ValidUntil
}

// promotionActive reports whether now falls inside the promotion's period.
// Records with unparsable dates are never active.
func promotionActive(p domain.Promotion, now time.Time) bool {
	from, err := time.Parse(time.RFC3339, p.ValidFrom)
	if err != nil {
		return false
	}
	until, err := time.Parse(time.RFC3339, p.ValidUntil)
	if err != nil {
		return false
	}
	return !now.Before(from) && !now.After(until)
}

func (h *Handler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	promotions := store.Get(h.store, store.Promotions)

	if r.URL.Query().Get("active") == "true" {
		now := h.now()
		promotions = slices.DeleteFunc(promotions, func(p domain.Promotion) bool {
			return !promotionActive(p, now)
		})
	}

	h.successResponse(w, r, "promotions", promotions)
}

func (h *Handler) readPromotion(w http.ResponseWriter, r *http.Request) (promotionRequest, bool) {
	var req promotionRequest
	if !h.readValid(w, r, &req) {
		return req, false
	}
	if err := utils.ValidatePromotionPeriod(req.ValidFrom, req.ValidUntil); err != nil {
		h.badRequest(w, r, err)
		return req, false
	}
	return req, true
}

func (h *Handler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readPromotion(w, r)
	if !ok {
		return
	}

	promotion := domain.Promotion{ID: utils.NewID("promo")}
	req.apply(&promotion)
	appendRecord(h.store, store.Promotions, promotion)

	h.createdResponse(w, r, "promotion created", promotion)
}

func (h *Handler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readPromotion(w, r)
	if !ok {
		return
	}

	promotion, err := updateRecord(h.store, store.Promotions, chi.URLParam(r, "id"), promotionID, req.apply)
	if err != nil {
		h.notFound(w, r, "promotion")
		return
	}

	h.successResponse(w, r, "promotion updated", promotion)
}

func (h *Handler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.Promotions, chi.URLParam(r, "id"), promotionID); err != nil {
		h.notFound(w, r, "promotion")
		return
	}

	h.successResponse(w, r, "promotion deleted", nil)
}
