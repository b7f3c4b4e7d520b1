package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/kopimi-kafe/backend/internal/domain"
	"github.com/kopimi-kafe/backend/internal/scheduler"
	"github.com/kopimi-kafe/backend/internal/utils"
)

var (
	errBaristaOnLeave = errors.New("barista is on leave that day")
	errUnknownBarista = errors.New("barista not found")
)

type rotaRow struct {
	BaristaID   string         `json:"baristaId"`
	BaristaName string         `json:"baristaName"`
	Shifts      []domain.Shift `json:"shifts"`
	OnLeave     []bool         `json:"onLeave"`
}

type rotaWeek struct {
	WeekStart string    `json:"weekStart"`
	Dates     []string  `json:"dates"`
	Rows      []rotaRow `json:"rows"`
}

// weekStart reads ?week= (any date in the week) and falls back to the
// current week in the shop's timezone.
func (h *Handler) weekStart(r *http.Request) (time.Time, error) {
	week := r.URL.Query().Get("week")
	if week == "" {
		return utils.WeekStart(h.now().In(h.location)), nil
	}
	t, err := utils.ParseDate(week)
	if err != nil {
		return time.Time{}, err
	}
	return utils.WeekStart(t), nil
}

func buildRotaWeek(s *domain.Snapshot, start time.Time) rotaWeek {
	week := rotaWeek{WeekStart: start.Format(domain.DateLayout)}
	for i := range 7 {
		week.Dates = append(week.Dates, start.AddDate(0, 0, i).Format(domain.DateLayout))
	}

	for _, b := range s.Baristas {
		row := rotaRow{BaristaID: b.ID, BaristaName: b.Name}
		for _, date := range week.Dates {
			row.Shifts = append(row.Shifts, s.ShiftFor(b.ID, date))
			row.OnLeave = append(row.OnLeave, slices.ContainsFunc(s.LeaveRequests, func(l domain.LeaveRequest) bool {
				return l.BaristaID == b.ID && l.Covers(date)
			}))
		}
		week.Rows = append(week.Rows, row)
	}
	return week
}

func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	start, err := h.weekStart(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.successResponse(w, r, "weekly schedule", buildRotaWeek(h.store.Snapshot(), start))
}

// SetShift upserts one rota cell.
func (h *Handler) SetShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BaristaID string       `json:"baristaId" validate:"required"`
		Date      string       `json:"date" validate:"required,datetime=2006-01-02"`
		Shift     domain.Shift `json:"shift" validate:"required,oneof=Morning Afternoon Night Off"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	entry := domain.Schedule{Date: req.Date, BaristaID: req.BaristaID, Shift: req.Shift}
	err := h.store.Mutate(func(s *domain.Snapshot) error {
		if _, ok := s.BaristaByID(req.BaristaID); !ok {
			return errUnknownBarista
		}
		if req.Shift != domain.ShiftOff && slices.ContainsFunc(s.LeaveRequests, func(l domain.LeaveRequest) bool {
			return l.BaristaID == req.BaristaID && l.Covers(req.Date)
		}) {
			return errBaristaOnLeave
		}

		i := slices.IndexFunc(s.Schedules, func(e domain.Schedule) bool {
			return e.BaristaID == req.BaristaID && e.Date == req.Date
		})
		if i < 0 {
			s.Schedules = append(s.Schedules, entry)
		} else {
			s.Schedules[i] = entry
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errUnknownBarista):
			h.notFound(w, r, "barista")
		case errors.Is(err, errBaristaOnLeave):
			h.errorResponse(w, r, http.StatusConflict, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift saved", entry)
}

type generateScheduleRequest struct {
	Week       string                 `json:"week" validate:"omitempty,datetime=2006-01-02"`
	Days       int                    `json:"days" validate:"omitempty,min=1,max=31"`
	Demand     map[domain.Shift]int32 `json:"demand" validate:"omitempty,dive,keys,oneof=Morning Afternoon Night,endkeys,min=0,max=10"`
	Parameters *scheduler.Parameters  `json:"parameters"`
}

// mergeParameters fills zero fields of p from the defaults.
func mergeParameters(p *scheduler.Parameters) *scheduler.Parameters {
	merged := scheduler.DefaultParameters()
	if p == nil {
		return merged
	}
	if p.PopulationSize > 0 {
		merged.PopulationSize = p.PopulationSize
	}
	if p.MaxGenerations > 0 {
		merged.MaxGenerations = p.MaxGenerations
	}
	if p.CrossoverRate > 0 {
		merged.CrossoverRate = p.CrossoverRate
	}
	if p.MutationRate > 0 {
		merged.MutationRate = p.MutationRate
	}
	if p.EliteCount > 0 {
		merged.EliteCount = p.EliteCount
	}
	if p.FairnessWeight > 0 {
		merged.FairnessWeight = p.FairnessWeight
	}
	merged.Seed = p.Seed
	return merged
}

// GenerateSchedule fills the rota for a date range with the genetic
// scheduler, replacing whatever the range held before.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req generateScheduleRequest
	if !h.readValid(w, r, &req) {
		return
	}

	start := utils.WeekStart(h.now().In(h.location))
	if req.Week != "" {
		t, err := utils.ParseDate(req.Week)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		start = utils.WeekStart(t)
	}
	days := req.Days
	if days == 0 {
		days = 7
	}
	demand := req.Demand
	if len(demand) == 0 {
		demand = scheduler.DefaultDemand()
	}

	snapshot := h.store.Snapshot()
	s, err := scheduler.New(mergeParameters(req.Parameters), snapshot.Baristas, snapshot.LeaveRequests, start, days, demand)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	rota, err := s.Schedule()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	from := start.Format(domain.DateLayout)
	until := start.AddDate(0, 0, days-1).Format(domain.DateLayout)
	err = h.store.Mutate(func(s *domain.Snapshot) error {
		s.Schedules = slices.DeleteFunc(s.Schedules, func(e domain.Schedule) bool {
			return from <= e.Date && e.Date <= until
		})
		s.Schedules = append(s.Schedules, rota...)
		return nil
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule generated", rota)
}

// ExportSchedule answers with the week's rota as an Excel workbook.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	start, err := h.weekStart(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	week := buildRotaWeek(h.store.Snapshot(), start)
	buf, err := rotaWorkbook(week)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rota-%s.xlsx"`, week.WeekStart))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logInternalServerError(r, err)
	}
}

func rotaWorkbook(week rotaWeek) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Rota " + week.WeekStart
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"Barista"}
	for _, date := range week.Dates {
		t, _ := time.Parse(domain.DateLayout, date)
		header = append(header, t.Format("Mon 02 Jan"))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	endCell, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", endCell, style); err != nil {
		return nil, err
	}

	for i, row := range week.Rows {
		values := []any{row.BaristaName}
		for j, shift := range row.Shifts {
			cell := string(shift)
			if row.OnLeave[j] {
				cell = "Leave"
			}
			values = append(values, cell)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "H", 16); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

// GetTodayShift tells a barista clocking in which shift they work today.
func (h *Handler) GetTodayShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "baristaID")
	snapshot := h.store.Snapshot()

	b, ok := snapshot.BaristaByID(id)
	if !ok {
		h.notFound(w, r, "barista")
		return
	}

	today := h.now().In(h.location).Format(domain.DateLayout)
	h.successResponse(w, r, "today's shift", map[string]any{
		"baristaId":   b.ID,
		"baristaName": b.Name,
		"date":        today,
		"shift":       snapshot.ShiftFor(b.ID, today),
	})
}
