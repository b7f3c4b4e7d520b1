package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func reviewID(r domain.Review) string { return r.ID }

func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "reviews", store.Get(h.store, store.Reviews))
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName string `json:"customerName" validate:"required,max=100"`
		Rating       int    `json:"rating" validate:"min=1,max=5"`
		Comment      string `json:"comment" validate:"required,max=1000"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	review := domain.Review{
		ID:           utils.NewID("review"),
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
		Date:         h.now().UTC().Format(time.RFC3339),
	}
	prependRecord(h.store, store.Reviews, review)

	h.notifyShop(r, domain.MailNewReview, domain.NewReviewMailData{
		CustomerName: review.CustomerName,
		Rating:       review.Rating,
		Comment:      review.Comment,
	})

	h.createdResponse(w, r, "thank you for your review", review)
}

func (h *Handler) ReplyToReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reply string `json:"reply" validate:"required,max=1000"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	review, err := updateRecord(h.store, store.Reviews, chi.URLParam(r, "id"), reviewID, func(rv *domain.Review) {
		rv.Reply = req.Reply
	})
	if err != nil {
		h.notFound(w, r, "review")
		return
	}

	h.successResponse(w, r, "reply saved", review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.Reviews, chi.URLParam(r, "id"), reviewID); err != nil {
		h.notFound(w, r, "review")
		return
	}

	h.successResponse(w, r, "review deleted", nil)
}
