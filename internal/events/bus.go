// Package events carries domain events from the services to their side
// effects: notification e-mails, metrics and the optional message broker.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/metrics"

	"github.com/asaskevich/EventBus"
)

var Topics = []string{
	domain.TopicOrderCreated,
	domain.TopicOrderCancelled,
	domain.TopicOrderStatusChanged,
	domain.TopicInquiryCreated,
}

// Bus is the in-process event bus. Publish never blocks on slow subscribers
// registered with SubscribeAsync.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func (b *Bus) Publish(topic string, payload any) {
	logger.Debug("Publishing event", "topic", topic)
	b.bus.Publish(topic, payload)
}

func (b *Bus) Subscribe(topic string, fn any) error {
	if err := b.bus.Subscribe(topic, fn); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

func (b *Bus) SubscribeAsync(topic string, fn any) error {
	if err := b.bus.SubscribeAsync(topic, fn, false); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// Wait blocks until asynchronous handlers have finished.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

// RegisterMetrics keeps the domain counters in step with published events.
func RegisterMetrics(b *Bus) error {
	subs := map[string]any{
		domain.TopicOrderCreated: func(e domain.OrderEvent) {
			metrics.OrdersCreated.Inc()
			metrics.OrderRevenue.Add(e.TotalAmount.InexactFloat64())
		},
		domain.TopicOrderCancelled: func(e domain.OrderEvent) {
			metrics.OrderTransitions.WithLabelValues(string(e.From), string(domain.OrderStatusCancelled)).Inc()
		},
		domain.TopicOrderStatusChanged: func(e domain.OrderEvent) {
			metrics.OrderTransitions.WithLabelValues(string(e.From), string(e.Status)).Inc()
		},
		domain.TopicInquiryCreated: func(domain.InquiryEvent) {
			metrics.InquiriesCreated.Inc()
		},
	}

	for topic, fn := range subs {
		if err := b.Subscribe(topic, fn); err != nil {
			return err
		}
	}

	return nil
}

// BrokerPublisher is satisfied by mq.Publisher.
type BrokerPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Forward republishes every domain event to the broker under its topic as
// routing key.
func Forward(b *Bus, pub BrokerPublisher) error {
	for _, topic := range Topics {
		err := b.SubscribeAsync(topic, func(payload any) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := pub.PublishJSON(ctx, topic, payload); err != nil {
				logger.Error("Failed to forward event to broker", "topic", topic, err)
			}
		})
		if err != nil {
			return err
		}
	}

	return nil
}
