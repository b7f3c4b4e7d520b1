package handler

import (
	"net/http"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
)

type dayHoursRequest struct {
	IsOpen bool   `json:"isOpen"`
	Open   string `json:"open" validate:"required_if=IsOpen true,omitempty,clock"`
	Close  string `json:"close" validate:"required_if=IsOpen true,omitempty,clock"`
}

func (d dayHoursRequest) toDomain() domain.DayHours {
	return domain.DayHours{IsOpen: d.IsOpen, Open: d.Open, Close: d.Close}
}

type operatingHoursRequest struct {
	Monday    dayHoursRequest `json:"monday"`
	Tuesday   dayHoursRequest `json:"tuesday"`
	Wednesday dayHoursRequest `json:"wednesday"`
	Thursday  dayHoursRequest `json:"thursday"`
	Friday    dayHoursRequest `json:"friday"`
	Saturday  dayHoursRequest `json:"saturday"`
	Sunday    dayHoursRequest `json:"sunday"`
}

func (o operatingHoursRequest) toDomain() *domain.OperatingHours {
	return &domain.OperatingHours{
		Monday:    o.Monday.toDomain(),
		Tuesday:   o.Tuesday.toDomain(),
		Wednesday: o.Wednesday.toDomain(),
		Thursday:  o.Thursday.toDomain(),
		Friday:    o.Friday.toDomain(),
		Saturday:  o.Saturday.toDomain(),
		Sunday:    o.Sunday.toDomain(),
	}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "shop settings", store.Get(h.store, store.Settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string                 `json:"name" validate:"required,max=100"`
		Address        string                 `json:"address" validate:"required,max=300"`
		Phone          string                 `json:"phone" validate:"required,max=50"`
		Email          string                 `json:"email" validate:"required,email"`
		Logo           string                 `json:"logo" validate:"required"`
		OperatingHours *operatingHoursRequest `json:"operatingHours"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	var settings domain.ShopSettings
	store.Update(h.store, store.Settings, func(prev domain.ShopSettings) domain.ShopSettings {
		prev.Name = req.Name
		prev.Address = req.Address
		prev.Phone = req.Phone
		prev.Email = req.Email
		prev.Logo = req.Logo
		if req.OperatingHours != nil {
			prev.OperatingHours = req.OperatingHours.toDomain()
		}
		settings = prev
		return prev
	})
	h.status.Refresh()

	h.successResponse(w, r, "settings updated", settings)
}

// UpdateOperatingHours replaces the whole week, or a single day when the
// request names one.
func (h *Handler) UpdateOperatingHours(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day   string                 `json:"day"`
		Hours *dayHoursRequest       `json:"hours" validate:"required_with=Day"`
		Week  *operatingHoursRequest `json:"week" validate:"required_without=Day"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	var weekday time.Weekday
	if req.Day != "" {
		var err error
		if weekday, err = domain.ParseWeekday(req.Day); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	var updated *domain.OperatingHours
	store.Update(h.store, store.Settings, func(prev domain.ShopSettings) domain.ShopSettings {
		if req.Day == "" {
			prev.OperatingHours = req.Week.toDomain()
		} else {
			if prev.OperatingHours == nil {
				hours := domain.DefaultOperatingHours()
				prev.OperatingHours = &hours
			}
			prev.OperatingHours.SetDay(weekday, req.Hours.toDomain())
		}
		updated = prev.OperatingHours
		return prev
	})
	status, _ := h.status.Refresh()

	h.successResponse(w, r, "operating hours updated", map[string]any{
		"operatingHours": updated,
		"status":         status,
	})
}
