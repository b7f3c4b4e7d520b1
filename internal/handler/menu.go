package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

var (
	errUnknownCategory  = errors.New("category does not exist")
	errCategoryExists   = errors.New("category already exists")
	errCategoryInUse    = errors.New("category is still used by menu items")
	errCategoryNotFound = errors.New("category not found")
)

func menuItemID(m domain.MenuItem) string { return m.ID }

type menuItemRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=1000"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image" validate:"required"`
}

func (req menuItemRequest) apply(m *domain.MenuItem) {
	m.Name = req.Name
	m.Description = req.Description
	m.Price = req.Price
	m.Category = req.Category
	m.Image = req.Image
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	items := store.Get(h.store, store.MenuItems)

	if category := r.URL.Query().Get("category"); category != "" {
		items = slices.DeleteFunc(items, func(m domain.MenuItem) bool {
			return !strings.EqualFold(m.Category, category)
		})
	}

	h.successResponse(w, r, "menu", items)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !h.readValid(w, r, &req) {
		return
	}
	if !slices.Contains(store.Get(h.store, store.Categories), req.Category) {
		h.badRequest(w, r, errUnknownCategory)
		return
	}

	item := domain.MenuItem{ID: utils.NewID("menu")}
	req.apply(&item)
	appendRecord(h.store, store.MenuItems, item)

	h.createdResponse(w, r, "menu item created", item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if !h.readValid(w, r, &req) {
		return
	}
	if !slices.Contains(store.Get(h.store, store.Categories), req.Category) {
		h.badRequest(w, r, errUnknownCategory)
		return
	}

	item, err := updateRecord(h.store, store.MenuItems, chi.URLParam(r, "id"), menuItemID, req.apply)
	if err != nil {
		h.notFound(w, r, "menu item")
		return
	}

	h.successResponse(w, r, "menu item updated", item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := deleteRecord(h.store, store.MenuItems, chi.URLParam(r, "id"), menuItemID); err != nil {
		h.notFound(w, r, "menu item")
		return
	}

	h.successResponse(w, r, "menu item deleted", nil)
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "categories", store.Get(h.store, store.Categories))
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.readValid(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)

	err := h.store.Mutate(func(s *domain.Snapshot) error {
		if slices.Contains(s.Categories, name) {
			return errCategoryExists
		}
		s.Categories = append(s.Categories, name)
		return nil
	})
	if err != nil {
		h.categoryError(w, r, err)
		return
	}

	h.createdResponse(w, r, "category created", name)
}

// RenameCategory renames a category and moves every menu item in it along.
func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !h.readValid(w, r, &req) {
		return
	}
	oldName := chi.URLParam(r, "name")
	newName := strings.TrimSpace(req.Name)

	err := h.store.Mutate(func(s *domain.Snapshot) error {
		i := slices.Index(s.Categories, oldName)
		if i < 0 {
			return errCategoryNotFound
		}
		if newName != oldName && slices.Contains(s.Categories, newName) {
			return errCategoryExists
		}
		s.Categories[i] = newName
		for j := range s.MenuItems {
			if s.MenuItems[j].Category == oldName {
				s.MenuItems[j].Category = newName
			}
		}
		return nil
	})
	if err != nil {
		h.categoryError(w, r, err)
		return
	}

	h.successResponse(w, r, "category renamed", newName)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.store.Mutate(func(s *domain.Snapshot) error {
		i := slices.Index(s.Categories, name)
		if i < 0 {
			return errCategoryNotFound
		}
		if s.CategoryInUse(name) {
			return errCategoryInUse
		}
		s.Categories = slices.Delete(s.Categories, i, i+1)
		return nil
	})
	if err != nil {
		h.categoryError(w, r, err)
		return
	}

	h.successResponse(w, r, "category deleted", nil)
}

func (h *Handler) categoryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errCategoryNotFound):
		h.notFound(w, r, "category")
	case errors.Is(err, errCategoryExists), errors.Is(err, errCategoryInUse):
		h.errorResponse(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrNotLoaded):
		h.errorResponse(w, r, http.StatusServiceUnavailable, "data is still loading")
	default:
		h.internalServerError(w, r, err)
	}
}
