package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kopimi-kafe/backend/internal/domain"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func TestPublisherNotify(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", mock.Anything, "", "notification_queue", true, false, mock.MatchedBy(func(p amqp.Publishing) bool {
		var msg domain.MailMessage
		if err := json.Unmarshal(p.Body, &msg); err != nil {
			return false
		}
		return p.ContentType == "application/json" && msg.Type == domain.MailNewReview && msg.To == "hello@kopimikafe.com"
	})).Return(nil).Once()

	p := NewPublisher(ch, "notification_queue", time.Second)
	err := p.Notify(context.Background(), domain.MailMessage{
		Type: domain.MailNewReview,
		To:   "hello@kopimikafe.com",
		Data: domain.NewReviewMailData{CustomerName: "Sari", Rating: 5},
	})

	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestPublisherReturnsChannelError(t *testing.T) {
	ch := &mockChannel{}
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	p := NewPublisher(ch, "notification_queue", time.Second)
	err := p.Notify(context.Background(), domain.MailMessage{Type: domain.MailNewLeaveRequest})

	assert.EqualError(t, err, "channel closed")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), domain.MailMessage{}))
}
