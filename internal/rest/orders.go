package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error)
		GetMyOrders(ctx context.Context, userID uint, filter domain.OrderFilter) (domain.Page[domain.Order], error)
		GetOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error)
		CancelOrder(ctx context.Context, actor domain.Actor, id uint) (domain.Order, error)
		ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error)
		UpdateOrderStatus(ctx context.Context, actor domain.Actor, id uint, status domain.OrderStatus) (domain.Order, error)
		ExportOrders(ctx context.Context, filter domain.OrderFilter, w io.Writer) error
	}

	OrdersInput struct {
		Items         []domain.OrderLine   `json:"items" validate:"required,min=1,dive"`
		Shipping      domain.ShippingInfo  `json:"shipping"`
		PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=COD ONLINE cod online"`
		Notes         string               `json:"notes" validate:"max=1000"`
	}

	UpdateStatusInput struct {
		Status domain.OrderStatus `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       handlerTimeout(timeout),
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var request OrdersInput
	if valid, err := bind(c, h.validate, &request); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, domain.CreateOrderInput{
		UserID:        userID,
		Items:         request.Items,
		Shipping:      request.Shipping,
		PaymentMethod: request.PaymentMethod,
		Notes:         request.Notes,
	})
	if err != nil {
		return respondError(c, "create order", err)
	}

	return respondCreated(c, order, "Order placed")
}

// orderFilter reads the list filters shared by the admin list and export.
func orderFilter(c echo.Context) (domain.OrderFilter, error) {
	filter := domain.OrderFilter{
		PageQuery: pageQuery(c),
		Status:    domain.OrderStatus(c.QueryParam("status")),
		Search:    c.QueryParam("search"),
	}

	var err error
	if filter.UserID, err = queryUint(c, "userId"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return filter, err
	}

	return filter, nil
}

func (h *OrdersHandler) GetMyOrders(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.ordersService.GetMyOrders(ctx, userID, domain.OrderFilter{
		PageQuery: pageQuery(c),
		Status:    domain.OrderStatus(c.QueryParam("status")),
	})
	if err != nil {
		return respondError(c, "list my orders", err)
	}

	return paginated(c, page)
}

func (h *OrdersHandler) GetOrder(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid order id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, middleware.Actor(c), id)
	if err != nil {
		return respondError(c, "get order", err)
	}

	return respondOK(c, order, "")
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid order id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CancelOrder(ctx, middleware.Actor(c), id)
	if err != nil {
		return respondError(c, "cancel order", err)
	}

	return respondOK(c, order, "Order cancelled")
}

func (h *OrdersHandler) ListOrders(c echo.Context) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.ordersService.ListOrders(ctx, filter)
	if err != nil {
		return respondError(c, "list orders", err)
	}

	return paginated(c, page)
}

func (h *OrdersHandler) UpdateOrderStatus(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid order id")
	}

	var request UpdateStatusInput
	if valid, err := bind(c, h.validate, &request); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.UpdateOrderStatus(ctx, middleware.Actor(c), id, request.Status)
	if err != nil {
		return respondError(c, "update order status", err)
	}

	return respondOK(c, order, "Order status updated")
}

func (h *OrdersHandler) ExportOrders(c echo.Context) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.ordersService.ExportOrders(ctx, filter, &buf); err != nil {
		return respondError(c, "export orders", err)
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
