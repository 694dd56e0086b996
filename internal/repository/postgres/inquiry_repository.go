package postgres

import (
	"context"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

type InquiryRepository struct {
	DB *gorm.DB
}

func NewInquiryRepository(db *gorm.DB) *InquiryRepository {
	return &InquiryRepository{
		DB: db,
	}
}

func (r *InquiryRepository) Create(ctx context.Context, inquiry *domain.ProductInquiry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(inquiry).Error; err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}

	return nil
}

func (r *InquiryRepository) FindByID(ctx context.Context, id uint) (domain.ProductInquiry, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProductInquiry{}, fmt.Errorf("context error: %w", err)
	}

	var inquiry domain.ProductInquiry
	if err := r.DB.WithContext(ctx).Preload("Product").First(&inquiry, id).Error; err != nil {
		return domain.ProductInquiry{}, notFound(err, "inquiry")
	}

	return inquiry, nil
}

func (r *InquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) (domain.Page[domain.ProductInquiry], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.ProductInquiry]{}, fmt.Errorf("context error: %w", err)
	}

	where := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != 0 {
			db = db.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(company) LIKE ? ESCAPE '\\' OR LOWER(reference) LIKE ? ESCAPE '\\')",
				pattern, pattern, pattern, pattern)
		}
		return db
	}

	page, err := paginate[domain.ProductInquiry](ctx, r.DB, filter.PageQuery, where, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Product").Order("created_at DESC, id DESC")
	})
	if err != nil {
		return domain.Page[domain.ProductInquiry]{}, fmt.Errorf("failed to list inquiries: %w", err)
	}

	return page, nil
}

func (r *InquiryRepository) Update(ctx context.Context, id uint, status domain.InquiryStatus, adminNotes string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.ProductInquiry{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "inquiry not found")
	}

	return nil
}

func (r *InquiryRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.ProductInquiry{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inquiry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "inquiry not found")
	}

	return nil
}

func (r *InquiryRepository) CountByStatus(ctx context.Context, status domain.InquiryStatus) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.ProductInquiry{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count inquiries: %w", err)
	}
	return count, nil
}
