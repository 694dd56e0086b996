package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/business/inquiry"
	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type InquiryService interface {
	CreateInquiry(ctx context.Context, userID uint, input inquiry.InquiryInput) (domain.ProductInquiry, error)
	ListMyInquiries(ctx context.Context, userID uint, query domain.PageQuery) (domain.Page[domain.ProductInquiry], error)
	ListInquiries(ctx context.Context, filter domain.InquiryFilter) (domain.Page[domain.ProductInquiry], error)
	GetInquiry(ctx context.Context, id uint) (domain.ProductInquiry, error)
	UpdateInquiry(ctx context.Context, id uint, input inquiry.UpdateInput) (domain.ProductInquiry, error)
	DeleteInquiry(ctx context.Context, id uint) error
}

type InquiryHandler struct {
	inquiryService InquiryService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewInquiryHandler(inquiryService InquiryService, timeout time.Duration) *InquiryHandler {
	return &InquiryHandler{
		inquiryService: inquiryService,
		validator:      validator.New(),
		timeout:        handlerTimeout(timeout),
	}
}

type UpdateInquiryRequest struct {
	Status     domain.InquiryStatus `json:"status"`
	AdminNotes *string              `json:"admin_notes" validate:"omitempty,max=5000"`
}

// CreateInquiry is public; a signed-in caller is linked to the inquiry.
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	var req inquiry.InquiryInput
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.inquiryService.CreateInquiry(ctx, userID, req)
	if err != nil {
		return respondError(c, "create inquiry", err)
	}

	return respondCreated(c, result, "Inquiry received")
}

func (h *InquiryHandler) ListMyInquiries(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.inquiryService.ListMyInquiries(ctx, userID, pageQuery(c))
	if err != nil {
		return respondError(c, "list my inquiries", err)
	}

	return paginated(c, page)
}

func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.inquiryService.ListInquiries(ctx, domain.InquiryFilter{
		PageQuery: pageQuery(c),
		Status:    domain.InquiryStatus(c.QueryParam("status")),
		Search:    c.QueryParam("search"),
	})
	if err != nil {
		return respondError(c, "list inquiries", err)
	}

	return paginated(c, page)
}

func (h *InquiryHandler) GetInquiry(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid inquiry id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.inquiryService.GetInquiry(ctx, id)
	if err != nil {
		return respondError(c, "get inquiry", err)
	}

	return respondOK(c, result, "")
}

func (h *InquiryHandler) UpdateInquiry(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid inquiry id")
	}

	var req UpdateInquiryRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.inquiryService.UpdateInquiry(ctx, id, inquiry.UpdateInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return respondError(c, "update inquiry", err)
	}

	return respondOK(c, result, "Inquiry updated")
}

func (h *InquiryHandler) DeleteInquiry(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid inquiry id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.inquiryService.DeleteInquiry(ctx, id); err != nil {
		return respondError(c, "delete inquiry", err)
	}

	return respondOK(c, nil, "Inquiry deleted")
}
