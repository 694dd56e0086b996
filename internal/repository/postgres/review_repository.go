package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		DB: db,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "you have already reviewed this product")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, fmt.Errorf("context error: %w", err)
	}

	var review domain.Review
	if err := r.DB.WithContext(ctx).Preload("User").First(&review, id).Error; err != nil {
		return domain.Review{}, notFound(err, "review")
	}

	return review, nil
}

func (r *ReviewRepository) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return count > 0, nil
}

func (r *ReviewRepository) List(ctx context.Context, filter domain.ReviewFilter) (domain.Page[domain.Review], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("context error: %w", err)
	}

	where := func(db *gorm.DB) *gorm.DB {
		if filter.ProductID != 0 {
			db = db.Where("product_id = ?", filter.ProductID)
		}
		if filter.UserID != 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.Rating != 0 {
			db = db.Where("rating = ?", filter.Rating)
		}
		return db
	}

	page, err := paginate[domain.Review](ctx, r.DB, filter.PageQuery, where, func(db *gorm.DB) *gorm.DB {
		return db.Preload("User").Preload("Product").Order("created_at DESC, id DESC")
	})
	if err != nil {
		return domain.Page[domain.Review]{}, fmt.Errorf("failed to list reviews: %w", err)
	}

	return page, nil
}

// Distribution counts reviews per star for a product; every rating 1..5 is
// present in the result.
func (r *ReviewRepository) Distribution(ctx context.Context, productID uint) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Total  int64
	}

	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Select("rating, COUNT(*) AS total").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	out := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		out[row.Rating] = row.Total
	}

	return out, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Review{}).Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "review not found")
	}

	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "review not found")
	}

	return nil
}
