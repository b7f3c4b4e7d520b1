package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopimi-kafe/backend/internal/config"
	"github.com/kopimi-kafe/backend/internal/domain"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Email.TemplateDir = "../../templates"
	cfg.Email.SMTP.Username = "noreply@kopimikafe.com"
	return cfg
}

// queued decodes msg the way it arrives from the queue, with data as a map.
func queued(t *testing.T, msg domain.MailMessage) domain.MailMessage {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	var out domain.MailMessage
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestBuildMessageRendersEveryType(t *testing.T) {
	messages := []domain.MailMessage{
		{Type: domain.MailNewReview, To: "hello@kopimikafe.com", Data: domain.NewReviewMailData{CustomerName: "Budi", Rating: 5, Comment: "Enak sekali"}},
		{Type: domain.MailNewCustomerMessage, To: "hello@kopimikafe.com", Data: domain.CustomerMessageMailData{CustomerName: "Nadia", BaristaName: "Rina", Message: "Terima kasih!"}},
		{Type: domain.MailNewLeaveRequest, To: "hello@kopimikafe.com", Data: domain.LeaveRequestMailData{BaristaName: "Dimas", StartDate: "2026-11-02", EndDate: "2026-11-04", Reason: "Flu", Status: "Pending"}},
		{Type: domain.MailLeaveRequestDecided, To: "hello@kopimikafe.com", Data: domain.LeaveRequestMailData{BaristaName: "Dimas", StartDate: "2026-11-02", EndDate: "2026-11-04", Reason: "Flu", Status: "Approved"}},
	}

	for _, msg := range messages {
		t.Run(msg.Type, func(t *testing.T) {
			m, err := buildMessage(testConfig(), queued(t, msg))
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = m.WriteTo(&buf)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "Kopimi Kafe")
		})
	}
}

func TestBuildMessageRejectsUnknownType(t *testing.T) {
	_, err := buildMessage(testConfig(), domain.MailMessage{Type: "reset_password", To: "a@b.com"})
	assert.ErrorContains(t, err, "unsupported mail type")
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	_, err := buildMessage(testConfig(), domain.MailMessage{Type: domain.MailNewReview, To: "not an address"})
	assert.Error(t, err)
}
