package domain

const (
	PointsPerPurchase = 100
	RewardThreshold   = 2500
)

type Member struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Points       int    `json:"points"`
	JoinedAt     string `json:"joinedAt"`
}

type MemberView struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Points    int    `json:"points"`
	JoinedAt  string `json:"joinedAt"`
	Progress  int    `json:"progress"` // percent towards the next free coffee
	CanRedeem bool   `json:"canRedeem"`
}

func (m Member) View() MemberView {
	progress := m.Points * 100 / RewardThreshold
	if progress > 100 {
		progress = 100
	}
	return MemberView{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		Points:    m.Points,
		JoinedAt:  m.JoinedAt,
		Progress:  progress,
		CanRedeem: m.Points >= RewardThreshold,
	}
}
