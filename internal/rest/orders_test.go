//go:build !integration

package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrdersService struct {
	created domain.CreateOrderInput
	actor   domain.Actor
	filter  domain.OrderFilter
	err     error
}

func (f *fakeOrdersService) CreateOrder(_ context.Context, input domain.CreateOrderInput) (domain.Order, error) {
	f.created = input
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return domain.Order{
		ID:          1,
		UserID:      input.UserID,
		Status:      domain.OrderStatusPending,
		TotalAmount: decimal.NewFromInt(1620),
	}, nil
}

func (f *fakeOrdersService) GetMyOrders(_ context.Context, userID uint, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	f.filter = filter
	return domain.Page[domain.Order]{
		Items:      []domain.Order{{ID: 1, UserID: userID}},
		Pagination: domain.NewPagination(filter.Page, filter.Limit, 1),
	}, nil
}

func (f *fakeOrdersService) GetOrder(_ context.Context, actor domain.Actor, id uint) (domain.Order, error) {
	f.actor = actor
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return domain.Order{ID: id}, nil
}

func (f *fakeOrdersService) CancelOrder(_ context.Context, actor domain.Actor, id uint) (domain.Order, error) {
	f.actor = actor
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return domain.Order{ID: id, Status: domain.OrderStatusCancelled}, nil
}

func (f *fakeOrdersService) ListOrders(_ context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	f.filter = filter
	return domain.Page[domain.Order]{Pagination: domain.NewPagination(filter.Page, filter.Limit, 0)}, nil
}

func (f *fakeOrdersService) UpdateOrderStatus(_ context.Context, actor domain.Actor, id uint, status domain.OrderStatus) (domain.Order, error) {
	f.actor = actor
	return domain.Order{ID: id, Status: status}, nil
}

func (f *fakeOrdersService) ExportOrders(_ context.Context, filter domain.OrderFilter, w io.Writer) error {
	f.filter = filter
	_, err := io.WriteString(w, "order_number,status\nRE-1,PAID\n")
	return err
}

func authenticated(c echo.Context, userID uint, role string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, role)
}

const orderBody = `{
	"items": [{"product_id": 3, "quantity": 2}],
	"shipping": {"name": "Asha", "phone": "9999999999", "address": "12 Lake Rd", "city": "Pune"},
	"payment_method": "cod"
}`

func TestOrdersHandler_CreateOrder(t *testing.T) {
	svc := &fakeOrdersService{}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodPost, "/api/orders", orderBody)
	authenticated(c, 7, domain.RoleCustomer)

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint(7), svc.created.UserID)
	assert.Equal(t, []domain.OrderLine{{ProductID: 3, Quantity: 2}}, svc.created.Items)
	assert.Equal(t, domain.PaymentMethod("cod"), svc.created.PaymentMethod)
	assert.Equal(t, "Pune", svc.created.Shipping.City)

	body := decodeBody(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "Order placed", body.Message)
}

func TestOrdersHandler_CreateOrderValidation(t *testing.T) {
	tests := map[string]string{
		"no items":         `{"items": [], "shipping": {"name": "A", "phone": "1", "address": "x", "city": "y"}}`,
		"missing shipping": `{"items": [{"product_id": 3, "quantity": 1}]}`,
		"zero quantity":    `{"items": [{"product_id": 3, "quantity": 0}], "shipping": {"name": "A", "phone": "1", "address": "x", "city": "y"}}`,
		"bad method":       `{"items": [{"product_id": 3, "quantity": 1}], "shipping": {"name": "A", "phone": "1", "address": "x", "city": "y"}, "payment_method": "CARD"}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &fakeOrdersService{}
			h := NewOrdersHandler(svc, time.Second)

			c, rec := newContext(http.MethodPost, "/api/orders", payload)
			authenticated(c, 7, domain.RoleCustomer)

			require.NoError(t, h.CreateOrder(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "VALIDATION_ERROR", decodeBody(t, rec).Code)
			assert.Zero(t, svc.created.UserID)
		})
	}
}

func TestOrdersHandler_CreateOrderInsufficientStock(t *testing.T) {
	svc := &fakeOrdersService{err: domain.Errorf(domain.ErrInsufficientStock, "insufficient stock for %s", "Brass Vase")}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodPost, "/api/orders", orderBody)
	authenticated(c, 7, domain.RoleCustomer)

	require.NoError(t, h.CreateOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Message, "insufficient stock for Brass Vase")
}

func TestOrdersHandler_GetOrder(t *testing.T) {
	svc := &fakeOrdersService{}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodGet, "/api/orders/5", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	authenticated(c, 9, "admin")

	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Actor{UserID: 9, Role: domain.RoleAdmin}, svc.actor)

	c, rec = newContext(http.MethodGet, "/api/orders/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.err = domain.Errorf(domain.ErrNotFound, "order not found")
	c, rec = newContext(http.MethodGet, "/api/orders/6", "")
	c.SetParamNames("id")
	c.SetParamValues("6")
	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrdersHandler_CancelOrderInvalidState(t *testing.T) {
	svc := &fakeOrdersService{err: domain.Errorf(domain.ErrInvalidState, "cannot cancel a %s order", "SHIPPED")}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodPut, "/api/orders/5/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	authenticated(c, 7, domain.RoleCustomer)

	require.NoError(t, h.CancelOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATE", decodeBody(t, rec).Code)
}

func TestOrdersHandler_ListOrdersFilter(t *testing.T) {
	svc := &fakeOrdersService{}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodGet, "/api/orders?status=paid&userId=7&from=2026-01-01&to=2026-01-31&page=3&limit=20", "")
	require.NoError(t, h.ListOrders(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, domain.OrderStatus("paid"), svc.filter.Status)
	assert.Equal(t, uint(7), svc.filter.UserID)
	assert.Equal(t, 3, svc.filter.Page)
	assert.Equal(t, 20, svc.filter.Limit)
	require.NotNil(t, svc.filter.From)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *svc.filter.From)

	c, rec = newContext(http.MethodGet, "/api/orders?from=yesterday-ish", "")
	require.NoError(t, h.ListOrders(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandler_UpdateOrderStatus(t *testing.T) {
	svc := &fakeOrdersService{}
	h := NewOrdersHandler(svc, time.Second)

	c, rec := newContext(http.MethodPut, "/api/orders/5/status", `{"status":"SHIPPED"}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	authenticated(c, 1, domain.RoleAdmin)

	require.NoError(t, h.UpdateOrderStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order status updated", decodeBody(t, rec).Message)

	c, rec = newContext(http.MethodPut, "/api/orders/5/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.UpdateOrderStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrdersHandler_ExportOrders(t *testing.T) {
	h := NewOrdersHandler(&fakeOrdersService{}, time.Second)

	c, rec := newContext(http.MethodGet, "/api/orders/export", "")
	require.NoError(t, h.ExportOrders(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102")))
	assert.Contains(t, rec.Body.String(), "RE-1,PAID")
}
