package domain

import "github.com/shopspring/decimal"

// Topics published on the in-process event bus.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderStatusChanged = "order.status_changed"
	TopicInquiryCreated     = "inquiry.created"
)

type OrderEvent struct {
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uint            `json:"user_id"`
	Email       string          `json:"email,omitempty"`
	Name        string          `json:"name,omitempty"`
	From        OrderStatus     `json:"from,omitempty"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type InquiryEvent struct {
	InquiryID uint   `json:"inquiry_id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// Publisher fans domain events out to subscribers.
type Publisher interface {
	Publish(topic string, payload any)
}

type NopPublisher struct{}

func (NopPublisher) Publish(string, any) {}
