package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func galleryImageID(g domain.GalleryImage) string { return g.ID }

type galleryImageRequest struct {
	Src         string `json:"src" validate:"required"`
	Alt         string `json:"alt" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

func (req galleryImageRequest) apply(g *domain.GalleryImage) {
	g.Src = req.Src
	g.Alt = req.Alt
	g.Description = req.Description
}

func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "gallery", store.Get(h.store, store.GalleryImages))
}

func (h *Handler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req galleryImageRequest
	if !h.readValid(w, r, &req) {
		return
	}

	img := domain.GalleryImage{ID: utils.NewID("img")}
	req.apply(&img)
	appendRecord(h.store, store.GalleryImages, img)

	h.createdResponse(w, r, "image added", img)
}

func (h *Handler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req galleryImageRequest
	if !h.readValid(w, r, &req) {
		return
	}

	img, err := updateRecord(h.store, store.GalleryImages, chi.URLParam(r, "id"), galleryImageID, req.apply)
	if err != nil {
		h.notFound(w, r, "image")
		return
	}

	h.successResponse(w, r, "image updated", img)
}

func (h *Handler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.GalleryImages, chi.URLParam(r, "id"), galleryImageID); err != nil {
		h.notFound(w, r, "image")
		return
	}

	h.successResponse(w, r, "image deleted", nil)
}
