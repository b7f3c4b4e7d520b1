// Package hours decides whether the shop is open from its weekly schedule.
package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/kopimi-kafe/backend/internal/domain"
)

const (
	MessageClosedToday = "Closed Today"
	MessageOpenUntil   = "Open until %s"
	MessageOpensAt     = "Opens at %s"
	MessageClosed      = "Closed"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type Status struct {
	IsOpen  bool   `json:"isOpen"`
	Message string `json:"message"`
	// Invalid is set when today's record could not be parsed.
	Invalid bool `json:"-"`
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return hour, minute, nil
}

func ValidateClock(s string) error {
	_, _, err := ParseClock(s)
	return err
}

// window returns the open and close instants of d on the calendar date of day.
// A close at or before the open wraps to the following date.
func window(d domain.DayHours, day time.Time) (openAt, closeAt time.Time, err error) {
	oh, om, err := ParseClock(d.Open)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	ch, cm, err := ParseClock(d.Close)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	y, mo, dd := day.Date()
	loc := day.Location()
	openAt = time.Date(y, mo, dd, oh, om, 0, 0, loc)
	closeAt = time.Date(y, mo, dd, ch, cm, 0, 0, loc)
	if !closeAt.After(openAt) {
		closeAt = time.Date(y, mo, dd+1, ch, cm, 0, 0, loc)
	}
	return openAt, closeAt, nil
}

// Evaluate reports the shop status at now, in now's location.
//
// An overnight window from the previous day is honoured until its close time.
// Otherwise only today's record is consulted.
func Evaluate(h domain.OperatingHours, now time.Time) Status {
	y, mo, d := now.Date()
	yesterday := time.Date(y, mo, d-1, 12, 0, 0, 0, now.Location())
	if prev := h.Day(yesterday.Weekday()); prev.IsOpen {
		if _, closeAt, err := window(prev, yesterday); err == nil && now.Before(closeAt) {
			return Status{IsOpen: true, Message: fmt.Sprintf(MessageOpenUntil, prev.Close)}
		}
	}

	today := h.Day(now.Weekday())
	if !today.IsOpen {
		return Status{IsOpen: false, Message: MessageClosedToday}
	}

	openAt, closeAt, err := window(today, now)
	if err != nil {
		return Status{IsOpen: false, Message: MessageClosedToday, Invalid: true}
	}

	switch {
	case now.Before(openAt):
		return Status{IsOpen: false, Message: fmt.Sprintf(MessageOpensAt, today.Open)}
	case now.Before(closeAt):
		return Status{IsOpen: true, Message: fmt.Sprintf(MessageOpenUntil, today.Close)}
	default:
		return Status{IsOpen: false, Message: MessageClosed}
	}
}
