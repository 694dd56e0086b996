package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/notification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent chan notification.Email
}

func (m *fakeMailer) SendEmail(_ context.Context, email notification.Email) error {
	m.sent <- email
	return nil
}

func receive(t *testing.T, ch <-chan notification.Email) notification.Email {
	t.Helper()
	select {
	case email := <-ch:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for e-mail")
		return notification.Email{}
	}
}

func TestNotifier_OrderCreated(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan notification.Email, 4)}
	notifier, err := NewNotifier(mailer, 2, "RAM Enterprise", "")
	require.NoError(t, err)
	defer notifier.Release(time.Second)

	bus := NewBus()
	require.NoError(t, notifier.Register(bus))

	bus.Publish(domain.TopicOrderCreated, domain.OrderEvent{
		OrderNumber: "1001",
		Email:       "asha@example.com",
		Name:        "Asha",
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(1620),
	})

	email := receive(t, mailer.sent)
	assert.Equal(t, "asha@example.com", email.ToEmail)
	assert.Equal(t, "[RAM Enterprise] Order 1001 received", email.Subject)
	assert.Contains(t, email.TextPart, "1620.00")
}

func TestNotifier_InquiryNotifiesCustomerAndInbox(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan notification.Email, 4)}
	notifier, err := NewNotifier(mailer, 2, "RAM Enterprise", "sales@example.com")
	require.NoError(t, err)
	defer notifier.Release(time.Second)

	bus := NewBus()
	require.NoError(t, notifier.Register(bus))

	bus.Publish(domain.TopicInquiryCreated, domain.InquiryEvent{
		Reference: "ref-1",
		Name:      "Ravi",
		Email:     "ravi@example.com",
		Message:   "Need 40 units",
	})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		got[receive(t, mailer.sent).ToEmail] = true
	}
	assert.Equal(t, map[string]bool{"ravi@example.com": true, "sales@example.com": true}, got)
}

type fakeBroker struct {
	mu   sync.Mutex
	keys []string
}

func (b *fakeBroker) PublishJSON(_ context.Context, key string, _ any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys = append(b.keys, key)
	return nil
}

func TestForward(t *testing.T) {
	bus := NewBus()
	broker := &fakeBroker{}
	require.NoError(t, Forward(bus, broker))

	bus.Publish(domain.TopicOrderCancelled, domain.OrderEvent{OrderID: 7})
	bus.Publish(domain.TopicInquiryCreated, domain.InquiryEvent{InquiryID: 3})
	bus.Wait()

	broker.mu.Lock()
	defer broker.mu.Unlock()
	assert.ElementsMatch(t, []string{domain.TopicOrderCancelled, domain.TopicInquiryCreated}, broker.keys)
}
