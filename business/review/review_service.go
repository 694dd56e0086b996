package review

import (
	"context"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id uint) (domain.Review, error)
	Exists(ctx context.Context, userID, productID uint) (bool, error)
	List(ctx context.Context, filter domain.ReviewFilter) (domain.Page[domain.Review], error)
	Distribution(ctx context.Context, productID uint) (map[int]int64, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uint) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	RatingSummaries(ctx context.Context, ids []uint) (map[uint]domain.RatingSummary, error)
}

type PurchaseChecker interface {
	HasDelivered(ctx context.Context, userID, productID uint) (bool, error)
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type reviewService struct {
	reviewRepo  ReviewRepository
	productRepo ProductRepository
	purchases   PurchaseChecker
	validate    *validator.Validate
}

func NewReviewService(reviewRepo ReviewRepository, productRepo ProductRepository, purchases PurchaseChecker) *reviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		purchases:   purchases,
		validate:    validator.New(),
	}
}

func (s *reviewService) activeProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !product.IsActive {
		return domain.Product{}, domain.Errorf(domain.ErrNotFound, "product not found")
	}
	return product, nil
}

func (s *reviewService) validInput(input ReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return domain.Errorf(domain.ErrValidation, "rating must be between 1 and 5")
	}
	if err := s.validate.Struct(input); err != nil {
		return domain.Errorf(domain.ErrValidation, "%s", err.Error())
	}
	return nil
}

func (s *reviewService) CheckEligibility(ctx context.Context, userID, productID uint) (domain.ReviewEligibility, error) {
	if _, err := s.activeProduct(ctx, productID); err != nil {
		return domain.ReviewEligibility{}, err
	}

	purchased, err := s.purchases.HasDelivered(ctx, userID, productID)
	if err != nil {
		return domain.ReviewEligibility{}, err
	}

	reviewed, err := s.reviewRepo.Exists(ctx, userID, productID)
	if err != nil {
		return domain.ReviewEligibility{}, err
	}

	return domain.ReviewEligibility{
		CanReview:    purchased && !reviewed,
		HasPurchased: purchased,
		HasReviewed:  reviewed,
	}, nil
}

// CreateReview accepts one review per customer and product, and only for
// products the customer has received.
func (s *reviewService) CreateReview(ctx context.Context, userID, productID uint, input ReviewInput) (domain.Review, error) {
	if err := s.validInput(input); err != nil {
		return domain.Review{}, err
	}

	eligibility, err := s.CheckEligibility(ctx, userID, productID)
	if err != nil {
		return domain.Review{}, err
	}
	if !eligibility.HasPurchased {
		return domain.Review{}, domain.Errorf(domain.ErrValidation, "you can only review products from delivered orders")
	}
	if eligibility.HasReviewed {
		return domain.Review{}, domain.Errorf(domain.ErrConflict, "you have already reviewed this product")
	}

	review := domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		return domain.Review{}, err
	}

	logger.Info("Review created", "review_id", review.ID, "product_id", productID, "rating", review.Rating)

	return s.reviewRepo.FindByID(ctx, review.ID)
}

func (s *reviewService) ListProductReviews(ctx context.Context, productID uint, query domain.PageQuery) (domain.ProductReviews, error) {
	if _, err := s.activeProduct(ctx, productID); err != nil {
		return domain.ProductReviews{}, err
	}

	page, err := s.reviewRepo.List(ctx, domain.ReviewFilter{PageQuery: query, ProductID: productID})
	if err != nil {
		return domain.ProductReviews{}, err
	}

	summaries, err := s.productRepo.RatingSummaries(ctx, []uint{productID})
	if err != nil {
		return domain.ProductReviews{}, err
	}

	distribution, err := s.reviewRepo.Distribution(ctx, productID)
	if err != nil {
		return domain.ProductReviews{}, err
	}

	summary := summaries[productID]
	summary.AverageRating = decimal.NewFromFloat(summary.AverageRating).Round(1).InexactFloat64()

	return domain.ProductReviews{
		Page:          page,
		RatingSummary: summary,
		Distribution:  distribution,
	}, nil
}

func (s *reviewService) ListMyReviews(ctx context.Context, userID uint, query domain.PageQuery) (domain.Page[domain.Review], error) {
	return s.reviewRepo.List(ctx, domain.ReviewFilter{PageQuery: query, UserID: userID})
}

func (s *reviewService) ListReviews(ctx context.Context, filter domain.ReviewFilter) (domain.Page[domain.Review], error) {
	if filter.Rating != 0 && (filter.Rating < 1 || filter.Rating > 5) {
		return domain.Page[domain.Review]{}, domain.Errorf(domain.ErrValidation, "rating must be between 1 and 5")
	}
	return s.reviewRepo.List(ctx, filter)
}

func (s *reviewService) UpdateReview(ctx context.Context, actor domain.Actor, id uint, input ReviewInput) (domain.Review, error) {
	if err := s.validInput(input); err != nil {
		return domain.Review{}, err
	}

	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if review.UserID != actor.UserID {
		return domain.Review{}, domain.Errorf(domain.ErrForbidden, "you can only edit your own reviews")
	}

	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)
	if err := s.reviewRepo.Update(ctx, &review); err != nil {
		return domain.Review{}, err
	}

	return s.reviewRepo.FindByID(ctx, id)
}

func (s *reviewService) DeleteReview(ctx context.Context, actor domain.Actor, id uint) error {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.UserID && !actor.IsAdmin() {
		return domain.Errorf(domain.ErrForbidden, "you can only delete your own reviews")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("Review deleted", "review_id", id, "by", actor.UserID)
	return nil
}
