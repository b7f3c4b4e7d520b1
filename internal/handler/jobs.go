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

func jobID(j domain.JobVacancy) string { return j.ID }

type jobRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=2000"`
	Type        string `json:"type" validate:"required,oneof=Full-time Part-time Internship"`
	IsActive    bool   `json:"isActive"`
}

func (req jobRequest) apply(j *domain.JobVacancy) {
	j.Title = req.Title
	j.Description = req.Description
	j.Type = req.Type
	j.IsActive = req.IsActive
}

func (h *Handler) GetActiveJobs(w http.ResponseWriter, r *http.Request) {
	jobs := slices.DeleteFunc(store.Get(h.store, store.JobVacancies), func(j domain.JobVacancy) bool {
		return !j.IsActive
	})
	h.successResponse(w, r, "job vacancies", jobs)
}

func (h *Handler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "job vacancies", store.Get(h.store, store.JobVacancies))
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !h.readValid(w, r, &req) {
		return
	}

	job := domain.JobVacancy{
		ID:         utils.NewID("job"),
		PostedDate: h.now().UTC().Format(time.RFC3339),
	}
	req.apply(&job)
	prependRecord(h.store, store.JobVacancies, job)

	h.createdResponse(w, r, "job vacancy created", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if !h.readValid(w, r, &req) {
		return
	}

	job, err := updateRecord(h.store, store.JobVacancies, chi.URLParam(r, "id"), jobID, req.apply)
	if err != nil {
		h.notFound(w, r, "job vacancy")
		return
	}

	h.successResponse(w, r, "job vacancy updated", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.JobVacancies, chi.URLParam(r, "id"), jobID); err != nil {
		h.notFound(w, r, "job vacancy")
		return
	}

	h.successResponse(w, r, "job vacancy deleted", nil)
}
