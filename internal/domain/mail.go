package domain

const (
	MailNewReview           = "new_review"
	MailNewCustomerMessage  = "new_customer_message"
	MailNewLeaveRequest     = "new_leave_request"
	MailLeaveRequestDecided = "leave_request_decided"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type NewReviewMailData struct {
	CustomerName string `json:"customerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

type CustomerMessageMailData struct {
	CustomerName string `json:"customerName"`
	BaristaName  string `json:"baristaName"`
	Message      string `json:"message"`
}

type LeaveRequestMailData struct {
	BaristaName string `json:"baristaName"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Reason      string `json:"reason"`
	Status      string `json:"status"`
}
