package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayHours is one weekday's opening window, Open and Close are "HH:MM".
type DayHours struct {
	IsOpen bool   `json:"isOpen"`
	Open   string `json:"open"`
	Close  string `json:"close"`
}

type OperatingHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

func (h *OperatingHours) day(w time.Weekday) *DayHours {
	switch w {
	case time.Monday:
		return &h.Monday
	case time.Tuesday:
		return &h.Tuesday
	case time.Wednesday:
		return &h.Wednesday
	case time.Thursday:
		return &h.Thursday
	case time.Friday:
		return &h.Friday
	case time.Saturday:
		return &h.Saturday
	default:
		return &h.Sunday
	}
}

func (h OperatingHours) Day(w time.Weekday) DayHours {
	return *h.day(w)
}

func (h *OperatingHours) SetDay(w time.Weekday, d DayHours) {
	*h.day(w) = d
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for w := time.Sunday; w <= time.Saturday; w++ {
		name := strings.ToLower(w.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

type ShopSettings struct {
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Logo           string          `json:"logo"`
	OperatingHours *OperatingHours `json:"operatingHours,omitempty"`
}
