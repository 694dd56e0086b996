package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type WishlistService interface {
	GetWishlist(ctx context.Context, userID uint) (domain.Wishlist, error)
	AddItem(ctx context.Context, userID, productID uint) (domain.Wishlist, error)
	RemoveItem(ctx context.Context, userID, productID uint) (domain.Wishlist, error)
	ClearWishlist(ctx context.Context, userID uint) error
	MoveToCart(ctx context.Context, userID, productID uint) (domain.Cart, error)
}

type WishlistHandler struct {
	wishlistService WishlistService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewWishlistHandler(wishlistService WishlistService, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		validator:       validator.New(),
		timeout:         handlerTimeout(timeout),
	}
}

type WishlistItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wishlist, err := h.wishlistService.GetWishlist(ctx, userID)
	if err != nil {
		return respondError(c, "get wishlist", err)
	}

	return respondOK(c, wishlist, "")
}

func (h *WishlistHandler) AddItem(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req WishlistItemRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wishlist, err := h.wishlistService.AddItem(ctx, userID, req.ProductID)
	if err != nil {
		return respondError(c, "add wishlist item", err)
	}

	return respondOK(c, wishlist, "Product added to wishlist")
}

func (h *WishlistHandler) RemoveItem(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	wishlist, err := h.wishlistService.RemoveItem(ctx, userID, productID)
	if err != nil {
		return respondError(c, "remove wishlist item", err)
	}

	return respondOK(c, wishlist, "Product removed from wishlist")
}

func (h *WishlistHandler) ClearWishlist(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.wishlistService.ClearWishlist(ctx, userID); err != nil {
		return respondError(c, "clear wishlist", err)
	}

	return respondOK(c, nil, "Wishlist cleared")
}

func (h *WishlistHandler) MoveToCart(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.wishlistService.MoveToCart(ctx, userID, productID)
	if err != nil {
		return respondError(c, "move wishlist item to cart", err)
	}

	return respondOK(c, cart, "Product moved to cart")
}
