package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusPaid       OrderStatus = "PAID"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusPaid || s == OrderStatusProcessing
}

// HoldsStock is true for statuses whose cancellation gives stock back.
func (s OrderStatus) HoldsStock() bool {
	return s == OrderStatusPaid || s == OrderStatusProcessing
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

type Order struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	OrderNumber        string          `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	UserID             uint            `gorm:"column:user_id;index;not null" json:"user_id"`
	User               *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status             OrderStatus     `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	TotalAmount        decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod      PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	ShippingName       string          `gorm:"column:shipping_name;not null" json:"shipping_name"`
	ShippingPhone      string          `gorm:"column:shipping_phone;not null" json:"shipping_phone"`
	ShippingAddress    string          `gorm:"column:shipping_address;not null" json:"shipping_address"`
	ShippingCity       string          `gorm:"column:shipping_city;not null" json:"shipping_city"`
	ShippingState      string          `gorm:"column:shipping_state" json:"shipping_state"`
	ShippingPostalCode string          `gorm:"column:shipping_postal_code" json:"shipping_postal_code"`
	ShippingCountry    string          `gorm:"column:shipping_country" json:"shipping_country"`
	Notes              string          `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CancelledAt        *time.Time      `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	DeliveredAt        *time.Time      `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"column:order_id;index;not null" json:"order_id"`
	ProductID   uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	ProductName string          `gorm:"column:product_name;not null" json:"product_name"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null" json:"unit_price"`
	Discount    decimal.Decimal `gorm:"column:discount;type:decimal(5,2);not null" json:"discount"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:decimal(12,2);not null" json:"subtotal"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type ShippingInfo struct {
	Name       string `json:"name" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
}

type OrderLine struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CreateOrderInput struct {
	UserID        uint
	Items         []OrderLine
	Shipping      ShippingInfo
	PaymentMethod PaymentMethod
	Notes         string
}

type OrderFilter struct {
	PageQuery
	UserID uint
	Status OrderStatus
	Search string
	From   *time.Time
	To     *time.Time
}

// NewOrderItem snapshots a product at its current discounted price.
func NewOrderItem(p Product, quantity int) OrderItem {
	price := p.DiscountedPrice()
	return OrderItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		Discount:    p.Discount,
		Price:       price,
		Subtotal:    price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}
