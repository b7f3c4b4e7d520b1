package domain

type Barista struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Bio           string   `json:"bio"`
	Image         string   `json:"image"`
	Instagram     string   `json:"instagram,omitempty"`
	FavoriteDrink string   `json:"favoriteDrink,omitempty"`
	Skills        []string `json:"skills,omitempty"`
}

type Shift string

const (
	ShiftMorning   Shift = "Morning"
	ShiftAfternoon Shift = "Afternoon"
	ShiftNight     Shift = "Night"
	ShiftOff       Shift = "Off"
)

var WorkingShifts = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}

// Schedule is one rota cell. A barista without an entry for a date is off.
type Schedule struct {
	Date      string `json:"date"` // yyyy-MM-dd
	BaristaID string `json:"baristaId"`
	Shift     Shift  `json:"shift"`
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

type LeaveRequest struct {
	ID              string      `json:"id"`
	BaristaID       string      `json:"baristaId"`
	BaristaName     string      `json:"baristaName"`
	StartDate       string      `json:"startDate"` // yyyy-MM-dd
	EndDate         string      `json:"endDate"`
	Reason          string      `json:"reason"`
	DoctorNoteImage string      `json:"doctorNoteImage,omitempty"`
	Status          LeaveStatus `json:"status"`
	RequestDate     string      `json:"requestDate"`
}

// Covers reports whether an approved or pending leave includes date (yyyy-MM-dd).
func (l LeaveRequest) Covers(date string) bool {
	return l.Status != LeaveRejected && l.StartDate <= date && date <= l.EndDate
}

type MessageStatus string

const (
	MessageUnread MessageStatus = "unread"
	MessageRead   MessageStatus = "read"
)

type CustomerMessage struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customerName"`
	BaristaID    string        `json:"baristaId"`
	BaristaName  string        `json:"baristaName"`
	Message      string        `json:"message"`
	Date         string        `json:"date"`
	Status       MessageStatus `json:"status"`
}

type JobVacancy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	IsActive    bool   `json:"isActive"`
	PostedDate  string `json:"postedDate"`
}
