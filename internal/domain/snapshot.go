package domain

import "slices"

// Snapshot is the whole persisted database, read and written as one document.
type Snapshot struct {
	MenuItems        []MenuItem        `json:"menuItems"`
	Categories       []string          `json:"categories"`
	Promotions       []Promotion       `json:"promotions"`
	Reviews          []Review          `json:"reviews"`
	Settings         ShopSettings      `json:"settings"`
	Baristas         []Barista         `json:"baristas"`
	Schedules        []Schedule        `json:"schedules"`
	LeaveRequests    []LeaveRequest    `json:"leaveRequests"`
	JobVacancies     []JobVacancy      `json:"jobVacancies"`
	CustomerMessages []CustomerMessage `json:"customerMessages"`
	GalleryImages    []GalleryImage    `json:"galleryImages"`
	Members          []Member          `json:"members"`
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	out := &Snapshot{
		MenuItems:        slices.Clone(s.MenuItems),
		Categories:       slices.Clone(s.Categories),
		Promotions:       slices.Clone(s.Promotions),
		Reviews:          slices.Clone(s.Reviews),
		Settings:         s.Settings,
		Baristas:         slices.Clone(s.Baristas),
		Schedules:        slices.Clone(s.Schedules),
		LeaveRequests:    slices.Clone(s.LeaveRequests),
		JobVacancies:     slices.Clone(s.JobVacancies),
		CustomerMessages: slices.Clone(s.CustomerMessages),
		GalleryImages:    slices.Clone(s.GalleryImages),
		Members:          slices.Clone(s.Members),
	}
	if s.Settings.OperatingHours != nil {
		hours := *s.Settings.OperatingHours
		out.Settings.OperatingHours = &hours
	}
	for i := range out.Baristas {
		out.Baristas[i].Skills = slices.Clone(out.Baristas[i].Skills)
	}

	return out
}

// Redacted is the copy served to the public: member password hashes are blanked.
func (s *Snapshot) Redacted() *Snapshot {
	out := s.Clone()
	for i := range out.Members {
		out.Members[i].PasswordHash = ""
	}
	return out
}

// KeepMemberSecrets restores password hashes that a redacted snapshot dropped,
// matching members by ID against current.
func (s *Snapshot) KeepMemberSecrets(current *Snapshot) {
	if current == nil {
		return
	}
	hashes := make(map[string]string, len(current.Members))
	for _, m := range current.Members {
		hashes[m.ID] = m.PasswordHash
	}
	for i, m := range s.Members {
		if m.PasswordHash == "" {
			s.Members[i].PasswordHash = hashes[m.ID]
		}
	}
}

// CategoryInUse reports whether any menu item still references category.
func (s *Snapshot) CategoryInUse(category string) bool {
	return slices.ContainsFunc(s.MenuItems, func(m MenuItem) bool {
		return m.Category == category
	})
}

func (s *Snapshot) BaristaByID(id string) (Barista, bool) {
	i := slices.IndexFunc(s.Baristas, func(b Barista) bool { return b.ID == id })
	if i < 0 {
		return Barista{}, false
	}
	return s.Baristas[i], true
}

// ShiftFor returns the barista's shift on date, Off when the rota has no entry.
func (s *Snapshot) ShiftFor(baristaID, date string) Shift {
	for _, e := range s.Schedules {
		if e.BaristaID == baristaID && e.Date == date {
			return e.Shift
		}
	}
	return ShiftOff
}
