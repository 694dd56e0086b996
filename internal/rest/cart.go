package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CartService interface {
	GetCart(ctx context.Context, userID uint) (domain.Cart, error)
	AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uint) (domain.Cart, error)
	ClearCart(ctx context.Context, userID uint) error
}

type CartHandler struct {
	cartService CartService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCartHandler(cartService CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
		timeout:     handlerTimeout(timeout),
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		return respondError(c, "get cart", err)
	}

	return respondOK(c, cart, "")
}

func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req AddCartItemRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, "add cart item", err)
	}

	return respondOK(c, cart, "Item added to cart")
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	var req UpdateCartItemRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.UpdateItem(ctx, userID, productID, req.Quantity)
	if err != nil {
		return respondError(c, "update cart item", err)
	}

	return respondOK(c, cart, "Cart updated")
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.RemoveItem(ctx, userID, productID)
	if err != nil {
		return respondError(c, "remove cart item", err)
	}

	return respondOK(c, cart, "Item removed from cart")
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.ClearCart(ctx, userID); err != nil {
		return respondError(c, "clear cart", err)
	}

	return respondOK(c, nil, "Cart cleared")
}
