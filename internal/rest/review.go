package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/it-is-Aman/ram-enterprise/business/review"
	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"
	jsonres "github.com/it-is-Aman/ram-enterprise/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type ReviewService interface {
	CheckEligibility(ctx context.Context, userID, productID uint) (domain.ReviewEligibility, error)
	CreateReview(ctx context.Context, userID, productID uint, input review.ReviewInput) (domain.Review, error)
	ListProductReviews(ctx context.Context, productID uint, query domain.PageQuery) (domain.ProductReviews, error)
	ListMyReviews(ctx context.Context, userID uint, query domain.PageQuery) (domain.Page[domain.Review], error)
	ListReviews(ctx context.Context, filter domain.ReviewFilter) (domain.Page[domain.Review], error)
	UpdateReview(ctx context.Context, actor domain.Actor, id uint, input review.ReviewInput) (domain.Review, error)
	DeleteReview(ctx context.Context, actor domain.Actor, id uint) error
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewReviewHandler(reviewService ReviewService, timeout time.Duration) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
		timeout:       handlerTimeout(timeout),
	}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type productReviewsResponse struct {
	Reviews       []domain.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	TotalReviews  int64           `json:"total_reviews"`
	Distribution  map[int]int64   `json:"distribution"`
}

func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.reviewService.ListProductReviews(ctx, productID, pageQuery(c))
	if err != nil {
		return respondError(c, "list product reviews", err)
	}

	data := productReviewsResponse{
		Reviews:       result.Items,
		AverageRating: result.AverageRating,
		TotalReviews:  result.TotalReviews,
		Distribution:  result.Distribution,
	}

	return c.JSON(http.StatusOK, jsonres.Paginated(data, result.Pagination))
}

func (h *ReviewHandler) CheckEligibility(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	eligibility, err := h.reviewService.CheckEligibility(ctx, userID, productID)
	if err != nil {
		return respondError(c, "check review eligibility", err)
	}

	return respondOK(c, eligibility, "")
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	productID, valid := parseID(c, "productId")
	if !valid {
		return badRequest(c, "invalid product id")
	}

	var req ReviewRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.reviewService.CreateReview(ctx, userID, productID, review.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(c, "create review", err)
	}

	return respondCreated(c, result, "Review submitted")
}

func (h *ReviewHandler) ListMyReviews(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.reviewService.ListMyReviews(ctx, userID, pageQuery(c))
	if err != nil {
		return respondError(c, "list my reviews", err)
	}

	return paginated(c, page)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	productID, err := queryUint(c, "productId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := domain.ReviewFilter{
		PageQuery: pageQuery(c),
		ProductID: productID,
		Rating:    cast.ToInt(c.QueryParam("rating")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.reviewService.ListReviews(ctx, filter)
	if err != nil {
		return respondError(c, "list reviews", err)
	}

	return paginated(c, page)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid review id")
	}

	var req ReviewRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.reviewService.UpdateReview(ctx, middleware.Actor(c), id, review.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return respondError(c, "update review", err)
	}

	return respondOK(c, result, "Review updated")
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid review id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.reviewService.DeleteReview(ctx, middleware.Actor(c), id); err != nil {
		return respondError(c, "delete review", err)
	}

	return respondOK(c, nil, "Review deleted")
}
