package events

import (
	"context"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/notification"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/metrics"

	"github.com/panjf2000/ants/v2"
)

type Mailer interface {
	SendEmail(ctx context.Context, email notification.Email) error
}

// Notifier turns domain events into e-mails and sends them on a bounded
// worker pool so request handlers never wait on the mail provider.
type Notifier struct {
	mailer      Mailer
	pool        *ants.Pool
	appName     string
	notifyEmail string
}

func NewNotifier(mailer Mailer, workers int, appName, notifyEmail string) (*Notifier, error) {
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true), ants.WithPanicHandler(func(p interface{}) {
		logger.Error("Notification worker panicked", "panic", p)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create mail pool: %w", err)
	}

	return &Notifier{
		mailer:      mailer,
		pool:        pool,
		appName:     appName,
		notifyEmail: notifyEmail,
	}, nil
}

func (n *Notifier) Register(b *Bus) error {
	if err := b.Subscribe(domain.TopicOrderCreated, n.onOrderCreated); err != nil {
		return err
	}
	if err := b.Subscribe(domain.TopicOrderCancelled, n.onOrderCancelled); err != nil {
		return err
	}
	if err := b.Subscribe(domain.TopicOrderStatusChanged, n.onOrderStatusChanged); err != nil {
		return err
	}
	return b.Subscribe(domain.TopicInquiryCreated, n.onInquiryCreated)
}

// Release waits up to timeout for queued e-mails, then stops the pool.
func (n *Notifier) Release(timeout time.Duration) {
	if err := n.pool.ReleaseTimeout(timeout); err != nil {
		logger.Warn("Mail pool did not drain in time", err)
	}
}

func (n *Notifier) onOrderCreated(e domain.OrderEvent) {
	if e.Email == "" {
		return
	}
	body := fmt.Sprintf("Hi %s,\n\nThank you for your order %s. Total: %s.\nWe will let you know when it ships.",
		e.Name, e.OrderNumber, e.TotalAmount.StringFixed(2))
	n.dispatch(notification.Email{
		ToName:   e.Name,
		ToEmail:  e.Email,
		Subject:  fmt.Sprintf("[%s] Order %s received", n.appName, e.OrderNumber),
		TextPart: body,
	})
}

func (n *Notifier) onOrderCancelled(e domain.OrderEvent) {
	if e.Email == "" {
		return
	}
	n.dispatch(notification.Email{
		ToName:   e.Name,
		ToEmail:  e.Email,
		Subject:  fmt.Sprintf("[%s] Order %s cancelled", n.appName, e.OrderNumber),
		TextPart: fmt.Sprintf("Hi %s,\n\nYour order %s has been cancelled.", e.Name, e.OrderNumber),
	})
}

func (n *Notifier) onOrderStatusChanged(e domain.OrderEvent) {
	if e.Email == "" {
		return
	}
	n.dispatch(notification.Email{
		ToName:   e.Name,
		ToEmail:  e.Email,
		Subject:  fmt.Sprintf("[%s] Order %s is now %s", n.appName, e.OrderNumber, e.Status),
		TextPart: fmt.Sprintf("Hi %s,\n\nThe status of your order %s changed from %s to %s.", e.Name, e.OrderNumber, e.From, e.Status),
	})
}

func (n *Notifier) onInquiryCreated(e domain.InquiryEvent) {
	n.dispatch(notification.Email{
		ToName:   e.Name,
		ToEmail:  e.Email,
		Subject:  fmt.Sprintf("[%s] We received your inquiry %s", n.appName, e.Reference),
		TextPart: fmt.Sprintf("Hi %s,\n\nThanks for reaching out. Our team will contact you shortly.\nReference: %s", e.Name, e.Reference),
	})

	if n.notifyEmail == "" {
		return
	}
	n.dispatch(notification.Email{
		ToName:   n.appName,
		ToEmail:  n.notifyEmail,
		Subject:  fmt.Sprintf("New inquiry %s from %s", e.Reference, e.Name),
		TextPart: fmt.Sprintf("From: %s <%s>\n\n%s", e.Name, e.Email, e.Message),
	})
}

func (n *Notifier) dispatch(email notification.Email) {
	err := n.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := n.mailer.SendEmail(ctx, email); err != nil {
			metrics.EmailsSent.WithLabelValues("failed").Inc()
			logger.Error("Failed to send e-mail", "to", email.ToEmail, "subject", email.Subject, err)
			return
		}
		metrics.EmailsSent.WithLabelValues("sent").Inc()
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("dropped").Inc()
		logger.Warn("Mail pool rejected e-mail", "to", email.ToEmail, err)
	}
}
