package orders

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"testing"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []domain.OrderEvent
}

func (p *recordingPublisher) Publish(topic string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	if e, ok := payload.(domain.OrderEvent); ok {
		p.events = append(p.events, e)
	}
}

type fixture struct {
	db        *gorm.DB
	svc       *OrdersService
	publisher *recordingPublisher
	customer  domain.User
	other     domain.User
	admin     domain.Actor
	category  domain.Category
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewOrdersService(
		postgres.NewOrdersRepository(db),
		postgres.NewProductRepository(db),
		postgres.NewUserRepository(db),
		pub,
		node,
	)

	admin := testutil.CreateUser(t, db, "admin@example.com", domain.RoleAdmin)

	return fixture{
		db:        db,
		svc:       svc,
		publisher: pub,
		customer:  testutil.CreateUser(t, db, "asha@example.com", domain.RoleCustomer),
		other:     testutil.CreateUser(t, db, "ravi@example.com", domain.RoleCustomer),
		admin:     domain.Actor{UserID: admin.ID, Role: domain.RoleAdmin},
		category:  testutil.CreateCategory(t, db, "Lighting"),
	}
}

func (f fixture) actor() domain.Actor {
	return domain.Actor{UserID: f.customer.ID, Role: domain.RoleCustomer}
}

func shipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    "Asha",
		Phone:   "0800000000",
		Address: "12 Market Road",
		City:    "Pune",
	}
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 5)

	cartRepo := postgres.NewCartRepository(f.db)
	cart, err := cartRepo.GetOrCreate(ctx, f.customer.ID)
	require.NoError(t, err)
	require.NoError(t, cartRepo.SetQuantity(ctx, cart.ID, lamp.ID, 2))

	input := domain.CreateOrderInput{
		UserID: f.customer.ID,
		Items: []domain.OrderLine{
			{ProductID: lamp.ID, Quantity: 1},
			{ProductID: lamp.ID, Quantity: 1},
		},
		Shipping: shipping(),
	}

	order, err := f.svc.CreateOrder(ctx, input)
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentMethodCOD, order.PaymentMethod)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromInt(810)), order.Items[0].Price.String())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(1620)), order.TotalAmount.String())

	assert.Equal(t, 3, testutil.ReloadProduct(t, f.db, lamp.ID).Stock)

	cart, err = cartRepo.GetOrCreate(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.TopicOrderCreated, f.publisher.topics[0])
	assert.Equal(t, f.customer.Email, f.publisher.events[0].Email)
}

func TestCreateOrder_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 1)
	hidden := testutil.CreateProduct(t, f.db, f.category.ID, "Hidden", 100, 0, 10)
	require.NoError(t, f.db.Model(&hidden).Update("is_active", false).Error)

	tests := []struct {
		name    string
		items   []domain.OrderLine
		method  domain.PaymentMethod
		wantErr error
		wantMsg string
	}{
		{name: "no items", wantErr: domain.ErrValidation},
		{name: "zero quantity", items: []domain.OrderLine{{ProductID: lamp.ID}}, wantErr: domain.ErrValidation},
		{name: "unknown product", items: []domain.OrderLine{{ProductID: 9999, Quantity: 1}}, wantErr: domain.ErrNotFound},
		{name: "inactive product", items: []domain.OrderLine{{ProductID: hidden.ID, Quantity: 1}}, wantErr: domain.ErrNotFound},
		{name: "bad payment method", items: []domain.OrderLine{{ProductID: lamp.ID, Quantity: 1}}, method: "BARTER", wantErr: domain.ErrValidation},
		{
			name:    "insufficient stock",
			items:   []domain.OrderLine{{ProductID: lamp.ID, Quantity: 2}},
			wantErr: domain.ErrInsufficientStock,
			wantMsg: "insufficient stock for Lamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, domain.CreateOrderInput{
				UserID:        f.customer.ID,
				Items:         tt.items,
				Shipping:      shipping(),
				PaymentMethod: tt.method,
			})
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}

	assert.Equal(t, 1, testutil.ReloadProduct(t, f.db, lamp.ID).Stock)
	assert.Empty(t, f.publisher.events)
}

func TestGetOrder_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 5)
	order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusPending)

	got, err := f.svc.GetOrder(ctx, f.actor(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)

	_, err = f.svc.GetOrder(ctx, domain.Actor{UserID: f.other.ID, Role: domain.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetOrder(ctx, f.admin, order.ID)
	assert.NoError(t, err)

	page, err := f.svc.GetMyOrders(ctx, f.other.ID, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCancelOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 5)

	t.Run("paid order returns stock", func(t *testing.T) {
		order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 2, domain.OrderStatusPaid)

		cancelled, err := f.svc.CancelOrder(ctx, f.actor(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)
		assert.Equal(t, 7, testutil.ReloadProduct(t, f.db, lamp.ID).Stock)
	})

	t.Run("pending order keeps stock untouched", func(t *testing.T) {
		order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusPending)

		_, err := f.svc.CancelOrder(ctx, f.actor(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, testutil.ReloadProduct(t, f.db, lamp.ID).Stock)
	})

	t.Run("shipped and cancelled orders are final", func(t *testing.T) {
		shipped := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusShipped)
		_, err := f.svc.CancelOrder(ctx, f.actor(), shipped.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)

		done := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusCancelled)
		_, err = f.svc.CancelOrder(ctx, f.actor(), done.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("other customers cannot cancel", func(t *testing.T) {
		order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusPending)
		_, err := f.svc.CancelOrder(ctx, domain.Actor{UserID: f.other.ID, Role: domain.RoleCustomer}, order.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 5)
	order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusPending)

	_, err := f.svc.UpdateOrderStatus(ctx, f.admin, order.ID, domain.OrderStatusShipped)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.UpdateOrderStatus(ctx, f.admin, order.ID, "LOST")
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, next := range []domain.OrderStatus{"paid", domain.OrderStatusProcessing, domain.OrderStatusShipped, domain.OrderStatusDelivered} {
		updated, err := f.svc.UpdateOrderStatus(ctx, f.admin, order.ID, next)
		require.NoError(t, err, next)
		assert.Equal(t, domain.OrderStatus(strings.ToUpper(string(next))), updated.Status)
	}

	delivered, err := f.svc.GetOrder(ctx, f.admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	require.Len(t, f.publisher.events, 4)
	assert.Equal(t, domain.TopicOrderStatusChanged, f.publisher.topics[3])
	assert.Equal(t, domain.OrderStatusShipped, f.publisher.events[3].From)
	assert.Equal(t, domain.OrderStatusDelivered, f.publisher.events[3].Status)
}

func TestUpdateOrderStatus_CancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 5)
	order := testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 3, domain.OrderStatusProcessing)

	cancelled, err := f.svc.UpdateOrderStatus(ctx, f.admin, order.ID, domain.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 8, testutil.ReloadProduct(t, f.db, lamp.ID).Stock)

	require.Len(t, f.publisher.topics, 1)
	assert.Equal(t, domain.TopicOrderCancelled, f.publisher.topics[0])
	assert.Equal(t, domain.OrderStatusProcessing, f.publisher.events[0].From)
}

func TestListAndExportOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	lamp := testutil.CreateProduct(t, f.db, f.category.ID, "Lamp", 900, 10, 50)
	testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 1, domain.OrderStatusPending)
	testutil.CreateOrder(t, f.db, f.customer.ID, lamp, 2, domain.OrderStatusPaid)
	testutil.CreateOrder(t, f.db, f.other.ID, lamp, 1, domain.OrderStatusPaid)

	page, err := f.svc.ListOrders(ctx, domain.OrderFilter{Status: "paid"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	_, err = f.svc.ListOrders(ctx, domain.OrderFilter{Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ExportOrders(ctx, domain.OrderFilter{UserID: f.customer.ID}, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "order_number", records[0][0])
	assert.Contains(t, records[0], "total_amount")
}
