package utils

import (
	"fmt"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
)

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want yyyy-MM-dd", s)
	}
	return t, nil
}

// WeekStart returns midnight of the Monday of t's week, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

func ValidatePromotionPeriod(validFrom, validUntil string) error {
	from, err := time.Parse(time.RFC3339, validFrom)
	if err != nil {
		return fmt.Errorf("invalid start date %q", validFrom)
	}
	until, err := time.Parse(time.RFC3339, validUntil)
	if err != nil {
		return fmt.Errorf("invalid end date %q", validUntil)
	}
	if !until.After(from) {
		return fmt.Errorf("end date must be after start date")
	}
	return nil
}

func ValidateLeavePeriod(startDate, endDate string) error {
	start, err := ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end date cannot be before start date")
	}
	return nil
}

// ValidateRota checks that nobody holds two entries on one date and that
// nobody works during a leave that was not rejected.
func ValidateRota(rota []domain.Schedule, leave []domain.LeaveRequest) error {
	seen := make(map[string]bool)
	for _, e := range rota {
		key := e.Date + "/" + e.BaristaID
		if seen[key] {
			return fmt.Errorf("barista %s appears twice on %s", e.BaristaID, e.Date)
		}
		seen[key] = true

		if e.Shift == domain.ShiftOff {
			continue
		}
		for _, l := range leave {
			if l.BaristaID == e.BaristaID && l.Covers(e.Date) {
				return fmt.Errorf("barista %s is on leave on %s", e.BaristaID, e.Date)
			}
		}
	}
	return nil
}
