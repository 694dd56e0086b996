package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

const categoryColumns = "categories.*, (SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id) AS product_count"

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		DB: db,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "category already exists")
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	var category domain.Category
	err := r.DB.WithContext(ctx).Select(categoryColumns).Where("categories.id = ?", id).First(&category).Error
	if err != nil {
		return domain.Category{}, notFound(err, "category")
	}

	return category, nil
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	var category domain.Category
	err := r.DB.WithContext(ctx).Select(categoryColumns).Where("categories.slug = ?", slug).First(&category).Error
	if err != nil {
		return domain.Category{}, notFound(err, "category")
	}

	return category, nil
}

// NameTaken reports whether a category other than exceptID uses name or slug.
func (r *CategoryRepository) NameTaken(ctx context.Context, name, slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Category{}).
		Where("(LOWER(name) = LOWER(?) OR slug = ?) AND id <> ?", name, slug, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}

	return count > 0, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter domain.CategoryFilter) (domain.Page[domain.Category], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("context error: %w", err)
	}

	where := func(db *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where("(LOWER(categories.name) LIKE ? ESCAPE '\\' OR LOWER(categories.description) LIKE ? ESCAPE '\\')", pattern, pattern)
		}
		return db
	}

	page, err := paginate[domain.Category](ctx, r.DB, filter.PageQuery, where, func(db *gorm.DB) *gorm.DB {
		return db.Select(categoryColumns).Order("categories.name ASC")
	})
	if err != nil {
		return domain.Page[domain.Category]{}, fmt.Errorf("failed to list categories: %w", err)
	}

	return page, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "category already exists")
		}
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "category not found")
	}

	return nil
}

func (r *CategoryRepository) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count category products: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return domain.Errorf(domain.ErrConflict, "category has products")
		}
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "category not found")
	}

	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
