package orders

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error)
	Export(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Cancel(ctx context.Context, order domain.Order) error
	UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus) error
}

type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type OrdersService struct {
	orderRepo   OrdersRepository
	productRepo ProductRepository
	userRepo    UserRepository
	publisher   domain.Publisher
	node        *snowflake.Node
}

func NewOrdersService(
	orderRepo OrdersRepository,
	productRepo ProductRepository,
	userRepo UserRepository,
	publisher domain.Publisher,
	node *snowflake.Node,
) *OrdersService {
	if publisher == nil {
		publisher = domain.NopPublisher{}
	}
	return &OrdersService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		node:        node,
	}
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(lines []domain.OrderLine) ([]domain.OrderLine, error) {
	merged := make([]domain.OrderLine, 0, len(lines))
	index := make(map[uint]int, len(lines))

	for _, line := range lines {
		if line.ProductID == 0 {
			return nil, domain.Errorf(domain.ErrValidation, "product id is required")
		}
		if line.Quantity < 1 {
			return nil, domain.Errorf(domain.ErrValidation, "quantity must be at least 1")
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged, nil
}

// CreateOrder prices every line from the catalogue, never from the client,
// and hands the order to the repository which decrements stock and clears
// the cart atomically.
func (s *OrdersService) CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error) {
	if len(input.Items) == 0 {
		return domain.Order{}, domain.Errorf(domain.ErrValidation, "order must contain at least one item")
	}

	lines, err := mergeLines(input.Items)
	if err != nil {
		return domain.Order{}, err
	}

	method := domain.PaymentMethod(strings.ToUpper(string(input.PaymentMethod)))
	switch method {
	case "":
		method = domain.PaymentMethodCOD
	case domain.PaymentMethodCOD, domain.PaymentMethodOnline:
	default:
		return domain.Order{}, domain.Errorf(domain.ErrValidation, "invalid payment method %q", input.PaymentMethod)
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return domain.Order{}, err
	}

	ids := make([]uint, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}

	byID := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive {
			return domain.Order{}, domain.Errorf(domain.ErrNotFound, "product %d not found", line.ProductID)
		}
		if product.Stock < line.Quantity {
			return domain.Order{}, domain.Errorf(domain.ErrInsufficientStock, "insufficient stock for %s", product.Name)
		}

		item := domain.NewOrderItem(product, line.Quantity)
		total = total.Add(item.Subtotal)
		items = append(items, item)
	}

	order := domain.Order{
		OrderNumber:        s.node.Generate().String(),
		UserID:             user.ID,
		Status:             domain.OrderStatusPending,
		TotalAmount:        total,
		PaymentMethod:      method,
		ShippingName:       strings.TrimSpace(input.Shipping.Name),
		ShippingPhone:      strings.TrimSpace(input.Shipping.Phone),
		ShippingAddress:    strings.TrimSpace(input.Shipping.Address),
		ShippingCity:       strings.TrimSpace(input.Shipping.City),
		ShippingState:      strings.TrimSpace(input.Shipping.State),
		ShippingPostalCode: strings.TrimSpace(input.Shipping.PostalCode),
		ShippingCountry:    strings.TrimSpace(input.Shipping.Country),
		Notes:              input.Notes,
		Items:              items,
	}

	if err := s.orderRepo.Create(ctx, &order); err != nil {
		return domain.Order{}, err
	}

	logger.Info("Order created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.TotalAmount.String())

	s.publisher.Publish(domain.TopicOrderCreated, domain.OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	})

	return s.orderRepo.FindByID(ctx, order.ID)
}

func (s *OrdersService) GetMyOrders(ctx context.Context, userID uint, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	filter.UserID = userID
	filter.Search = ""
	return s.ListOrders(ctx, filter)
}

// GetOrder hides other customers' orders behind a not-found.
func (s *OrdersService) GetOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return domain.Order{}, domain.Errorf(domain.ErrNotFound, "order not found")
	}

	return order, nil
}

func (s *OrdersService) CancelOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return domain.Order{}, err
	}

	switch order.Status {
	case domain.OrderStatusShipped, domain.OrderStatusDelivered:
		return domain.Order{}, domain.Errorf(domain.ErrInvalidState, "cannot cancel an order that has been %s", strings.ToLower(string(order.Status)))
	case domain.OrderStatusCancelled:
		return domain.Order{}, domain.Errorf(domain.ErrInvalidState, "order is already cancelled")
	case domain.OrderStatusRefunded:
		return domain.Order{}, domain.Errorf(domain.ErrInvalidState, "cannot cancel a refunded order")
	}

	if err := s.orderRepo.Cancel(ctx, order); err != nil {
		return domain.Order{}, err
	}

	logger.Info("Order cancelled", "order_id", order.ID, "from", order.Status, "restocked", order.Status.HoldsStock())

	s.publish(domain.TopicOrderCancelled, order, domain.OrderStatusCancelled)

	return s.orderRepo.FindByID(ctx, order.ID)
}

func (s *OrdersService) ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	if filter.Status != "" {
		filter.Status = domain.OrderStatus(strings.ToUpper(string(filter.Status)))
		if !filter.Status.Valid() {
			return domain.Page[domain.Order]{}, domain.Errorf(domain.ErrValidation, "invalid order status %q", filter.Status)
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return domain.Page[domain.Order]{}, domain.Errorf(domain.ErrValidation, "from must be before to")
	}

	return s.orderRepo.List(ctx, filter)
}

// UpdateOrderStatus applies an admin status change. Cancellation goes
// through CancelOrder so stock is handled the same way.
func (s *OrdersService) UpdateOrderStatus(ctx context.Context, actor domain.Actor, id uint, status domain.OrderStatus) (domain.Order, error) {
	status = domain.OrderStatus(strings.ToUpper(string(status)))
	if !status.Valid() {
		return domain.Order{}, domain.Errorf(domain.ErrValidation, "invalid order status %q", status)
	}

	if status == domain.OrderStatusCancelled {
		return s.CancelOrder(ctx, actor, id)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Status.CanTransitionTo(status) {
		return domain.Order{}, domain.Errorf(domain.ErrInvalidState, "cannot change order status from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, status); err != nil {
		return domain.Order{}, err
	}

	logger.Info("Order status changed", "order_id", order.ID, "from", order.Status, "to", status)

	s.publish(domain.TopicOrderStatusChanged, order, status)

	return s.orderRepo.FindByID(ctx, order.ID)
}

func (s *OrdersService) publish(topic string, order domain.Order, status domain.OrderStatus) {
	event := domain.OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        order.Status,
		Status:      status,
		TotalAmount: order.TotalAmount,
	}
	if order.User != nil {
		event.Email = order.User.Email
		event.Name = order.User.Name
	}
	s.publisher.Publish(topic, event)
}

type exportRow struct {
	OrderNumber   string `csv:"order_number"`
	CreatedAt     string `csv:"created_at"`
	Customer      string `csv:"customer"`
	Email         string `csv:"email"`
	Status        string `csv:"status"`
	PaymentMethod string `csv:"payment_method"`
	Items         int    `csv:"items"`
	TotalAmount   string `csv:"total_amount"`
	ShippingName  string `csv:"shipping_name"`
	ShippingCity  string `csv:"shipping_city"`
}

// ExportOrders writes the orders matching filter as CSV.
func (s *OrdersService) ExportOrders(ctx context.Context, filter domain.OrderFilter, w io.Writer) error {
	if filter.Status != "" {
		filter.Status = domain.OrderStatus(strings.ToUpper(string(filter.Status)))
		if !filter.Status.Valid() {
			return domain.Errorf(domain.ErrValidation, "invalid order status %q", filter.Status)
		}
	}

	orders, err := s.orderRepo.Export(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([]*exportRow, 0, len(orders))
	for _, o := range orders {
		units := 0
		for _, item := range o.Items {
			units += item.Quantity
		}

		row := &exportRow{
			OrderNumber:   o.OrderNumber,
			CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
			Status:        string(o.Status),
			PaymentMethod: string(o.PaymentMethod),
			Items:         units,
			TotalAmount:   o.TotalAmount.StringFixed(2),
			ShippingName:  o.ShippingName,
			ShippingCity:  o.ShippingCity,
		}
		if o.User != nil {
			row.Customer = o.User.Name
			row.Email = o.User.Email
		}
		rows = append(rows, row)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}
