package handler

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/store"
	"github.com/kopimi-kafe/backend/internal/utils"
)

func leaveRequestID(l domain.LeaveRequest) string { return l.ID }

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BaristaID       string `json:"baristaId" validate:"required"`
		StartDate       string `json:"startDate" validate:"required"`
		EndDate         string `json:"endDate" validate:"required"`
		Reason          string `json:"reason" validate:"required,max=1000"`
		DoctorNoteImage string `json:"doctorNoteImage"`
	}
	if !h.readValid(w, r, &req) {
		return
	}
	if err := utils.ValidateLeavePeriod(req.StartDate, req.EndDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	b, ok := findByID(store.Get(h.store, store.Baristas), req.BaristaID, baristaID)
	if !ok {
		h.notFound(w, r, "barista")
		return
	}

	leave := domain.LeaveRequest{
		ID:              utils.NewID("leave"),
		BaristaID:       b.ID,
		BaristaName:     b.Name,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Reason:          req.Reason,
		DoctorNoteImage: req.DoctorNoteImage,
		Status:          domain.LeavePending,
		RequestDate:     h.now().UTC().Format(time.RFC3339),
	}
	prependRecord(h.store, store.LeaveRequests, leave)

	h.notifyShop(r, domain.MailNewLeaveRequest, leaveMailData(leave))

	h.createdResponse(w, r, "leave request submitted", leave)
}

// GetLeaveRequests lists requests by start date, latest first.
func (h *Handler) GetLeaveRequests(w http.ResponseWriter, r *http.Request) {
	requests := store.Get(h.store, store.LeaveRequests)

	if status := domain.LeaveStatus(r.URL.Query().Get("status")); status != "" {
		requests = slices.DeleteFunc(requests, func(l domain.LeaveRequest) bool {
			return l.Status != status
		})
	}

	slices.SortStableFunc(requests, func(a, b domain.LeaveRequest) int {
		return strings.Compare(b.StartDate, a.StartDate)
	})

	h.successResponse(w, r, "leave requests", requests)
}

// DecideLeaveRequest sets the status of a leave request. Approving it takes
// the barista off any shift they held inside the period.
func (h *Handler) DecideLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.LeaveStatus `json:"status" validate:"required,oneof=Pending Approved Rejected"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var leave domain.LeaveRequest
	err := h.store.Mutate(func(s *domain.Snapshot) error {
		i := indexByID(s.LeaveRequests, id, leaveRequestID)
		if i < 0 {
			return errRecordNotFound
		}
		s.LeaveRequests[i].Status = req.Status
		leave = s.LeaveRequests[i]

		if req.Status != domain.LeaveApproved {
			return nil
		}
		for j := range s.Schedules {
			e := &s.Schedules[j]
			if e.BaristaID == leave.BaristaID && leave.Covers(e.Date) {
				e.Shift = domain.ShiftOff
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errRecordNotFound):
			h.notFound(w, r, "leave request")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyShop(r, domain.MailLeaveRequestDecided, leaveMailData(leave))

	h.successResponse(w, r, "leave request updated", leave)
}

func leaveMailData(l domain.LeaveRequest) domain.LeaveRequestMailData {
	return domain.LeaveRequestMailData{
		BaristaName: l.BaristaName,
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		Reason:      l.Reason,
		Status:      string(l.Status),
	}
}
