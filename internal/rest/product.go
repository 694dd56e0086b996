package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/it-is-Aman/ram-enterprise/business/product"
	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductService interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error)
	GetProduct(ctx context.Context, id uint, includeInactive bool) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string, includeInactive bool) (domain.Product, error)
	CreateProduct(ctx context.Context, input product.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id uint, input product.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	ExportProducts(ctx context.Context, w io.Writer) error
}

type ProductHandler struct {
	productService    ProductService
	validator         *validator.Validate
	timeout           time.Duration
	lowStockThreshold int
}

func NewProductHandler(productService ProductService, timeout time.Duration, lowStockThreshold int) *ProductHandler {
	return &ProductHandler{
		productService:    productService,
		validator:         validator.New(),
		timeout:           handlerTimeout(timeout),
		lowStockThreshold: lowStockThreshold,
	}
}

type ProductImageRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Alt       string `json:"alt" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type ProductVariantRequest struct {
	Name       string                 `json:"name" validate:"required,max=120"`
	SKU        string                 `json:"sku" validate:"required,max=64"`
	Attributes map[string]interface{} `json:"attributes"`
	Stock      int                    `json:"stock" validate:"gte=0"`
}

type ProductRequest struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Slug        string                  `json:"slug" validate:"omitempty,max=220"`
	Description string                  `json:"description"`
	Price       decimal.Decimal         `json:"price"`
	Discount    decimal.Decimal         `json:"discount"`
	Stock       int                     `json:"stock" validate:"gte=0"`
	IsActive    *bool                   `json:"is_active"`
	IsFeatured  bool                    `json:"is_featured"`
	CategoryID  uint                    `json:"category_id" validate:"required"`
	Images      []ProductImageRequest   `json:"images" validate:"omitempty,dive"`
	Variants    []ProductVariantRequest `json:"variants" validate:"omitempty,dive"`
}

func (r ProductRequest) input() product.ProductInput {
	input := product.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       r.Price,
		Discount:    r.Discount,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		IsFeatured:  r.IsFeatured,
		CategoryID:  r.CategoryID,
	}

	if r.Images != nil {
		input.Images = make([]product.ImageInput, len(r.Images))
		for i, img := range r.Images {
			input.Images[i] = product.ImageInput{
				URL:       img.URL,
				Alt:       img.Alt,
				IsPrimary: img.IsPrimary,
				SortOrder: img.SortOrder,
			}
		}
	}

	if r.Variants != nil {
		input.Variants = make([]product.VariantInput, len(r.Variants))
		for i, v := range r.Variants {
			input.Variants[i] = product.VariantInput{
				Name:       v.Name,
				SKU:        v.SKU,
				Attributes: v.Attributes,
				Stock:      v.Stock,
			}
		}
	}

	return input
}

// includeInactive is honoured for admins only.
func includeInactive(c echo.Context) bool {
	return middleware.Actor(c).IsAdmin() && queryBool(c, "includeInactive")
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := domain.ProductFilter{
		PageQuery:       pageQuery(c),
		Search:          c.QueryParam("search"),
		InStock:         queryBool(c, "inStock"),
		Featured:        queryBool(c, "featured"),
		IncludeInactive: includeInactive(c),
		SortBy:          c.QueryParam("sort"),
		SortOrder:       c.QueryParam("order"),
	}

	// category accepts either an id or a slug
	if raw := strings.TrimSpace(c.QueryParam("category")); raw != "" {
		if id, err := cast.ToUintE(raw); err == nil {
			filter.CategoryID = id
		} else {
			filter.CategorySlug = raw
		}
	}

	var err error
	if filter.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		return badRequest(c, err.Error())
	}
	if filter.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.productService.ListProducts(ctx, filter)
	if err != nil {
		return respondError(c, "list products", err)
	}

	return paginated(c, page)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.productService.GetProduct(ctx, id, middleware.Actor(c).IsAdmin())
	if err != nil {
		return respondError(c, "get product", err)
	}

	return respondOK(c, result, "")
}

func (h *ProductHandler) GetProductBySlug(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.productService.GetProductBySlug(ctx, c.Param("slug"), middleware.Actor(c).IsAdmin())
	if err != nil {
		return respondError(c, "get product", err)
	}

	return respondOK(c, result, "")
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.productService.CreateProduct(ctx, req.input())
	if err != nil {
		return respondError(c, "create product", err)
	}

	return respondCreated(c, result, "Product created")
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	var req ProductRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.productService.UpdateProduct(ctx, id, req.input())
	if err != nil {
		return respondError(c, "update product", err)
	}

	return respondOK(c, result, "Product updated")
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, id); err != nil {
		return respondError(c, "delete product", err)
	}

	return respondOK(c, nil, "Product deleted")
}

func (h *ProductHandler) ListLowStock(c echo.Context) error {
	threshold := h.lowStockThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := cast.ToIntE(raw)
		if err != nil || v < 0 {
			return badRequest(c, "invalid threshold")
		}
		threshold = v
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListLowStock(ctx, threshold)
	if err != nil {
		return respondError(c, "list low stock products", err)
	}

	return respondOK(c, products, "")
}

// ExportProducts streams the catalogue as an Excel workbook.
func (h *ProductHandler) ExportProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.productService.ExportProducts(ctx, &buf); err != nil {
		return respondError(c, "export products", err)
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
