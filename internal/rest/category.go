package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/business/category"
	"github.com/it-is-Aman/ram-enterprise/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	ListCategories(ctx context.Context, filter domain.CategoryFilter) (domain.Page[domain.Category], error)
	GetCategory(ctx context.Context, id uint) (domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	CreateCategory(ctx context.Context, input category.CategoryInput) (domain.Category, error)
	UpdateCategory(ctx context.Context, id uint, input category.CategoryInput) (domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService, timeout time.Duration) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		timeout:         handlerTimeout(timeout),
	}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"max=1000"`
}

func (r CategoryRequest) input() category.CategoryInput {
	return category.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.categoryService.ListCategories(ctx, domain.CategoryFilter{
		PageQuery: pageQuery(c),
		Search:    c.QueryParam("search"),
	})
	if err != nil {
		return respondError(c, "list categories", err)
	}

	return paginated(c, page)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid category id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.categoryService.GetCategory(ctx, id)
	if err != nil {
		return respondError(c, "get category", err)
	}

	return respondOK(c, result, "")
}

func (h *CategoryHandler) GetCategoryBySlug(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.categoryService.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		return respondError(c, "get category", err)
	}

	return respondOK(c, result, "")
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.categoryService.CreateCategory(ctx, req.input())
	if err != nil {
		return respondError(c, "create category", err)
	}

	return respondCreated(c, result, "Category created")
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid category id")
	}

	var req CategoryRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.categoryService.UpdateCategory(ctx, id, req.input())
	if err != nil {
		return respondError(c, "update category", err)
	}

	return respondOK(c, result, "Category updated")
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid category id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, id); err != nil {
		return respondError(c, "delete category", err)
	}

	return respondOK(c, nil, "Category deleted")
}
