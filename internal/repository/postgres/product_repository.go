package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

var productSortColumns = map[string]string{
	"price":      "products.price",
	"name":       "products.name",
	"created_at": "products.created_at",
	"stock":      "products.stock",
}

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "product slug or variant sku already exists")
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func preloadProduct(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Variants")
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	if err := r.DB.WithContext(ctx).Scopes(preloadProduct).First(&product, id).Error; err != nil {
		return domain.Product{}, notFound(err, "product")
	}

	return product, nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("context error: %w", err)
	}

	var product domain.Product
	if err := r.DB.WithContext(ctx).Scopes(preloadProduct).Where("slug = ?", slug).First(&product).Error; err != nil {
		return domain.Product{}, notFound(err, "product")
	}

	return product, nil
}

// FindByIDs loads the given products without associations.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return count > 0, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("context error: %w", err)
	}

	where := func(db *gorm.DB) *gorm.DB {
		if !filter.IncludeInactive {
			db = db.Where("products.is_active = ?", true)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where("(LOWER(products.name) LIKE ? ESCAPE '\\' OR LOWER(products.description) LIKE ? ESCAPE '\\')", pattern, pattern)
		}
		if filter.CategoryID != 0 {
			db = db.Where("products.category_id = ?", filter.CategoryID)
		}
		if filter.CategorySlug != "" {
			db = db.Where("products.category_id IN (?)",
				r.DB.Model(&domain.Category{}).Select("id").Where("slug = ?", filter.CategorySlug))
		}
		if filter.MinPrice != nil {
			db = db.Where("products.price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			db = db.Where("products.price <= ?", *filter.MaxPrice)
		}
		if filter.InStock {
			db = db.Where("products.stock > 0")
		}
		if filter.Featured {
			db = db.Where("products.is_featured = ?", true)
		}
		return db
	}

	order := func(db *gorm.DB) *gorm.DB {
		column, ok := productSortColumns[filter.SortBy]
		if !ok {
			column = "products.created_at"
		}
		direction := "DESC"
		if strings.EqualFold(filter.SortOrder, "asc") {
			direction = "ASC"
		}
		return db.Preload("Category").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("sort_order ASC, id ASC")
			}).
			Order(column + " " + direction).
			Order("products.id ASC")
	}

	page, err := paginate[domain.Product](ctx, r.DB, filter.PageQuery, where, order)
	if err != nil {
		return domain.Page[domain.Product]{}, fmt.Errorf("failed to list products: %w", err)
	}

	return page, nil
}

// RatingSummaries aggregates reviews for the given products.
func (r *ProductRepository) RatingSummaries(ctx context.Context, ids []uint) (map[uint]domain.RatingSummary, error) {
	out := make(map[uint]domain.RatingSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ProductID     uint
		AverageRating float64
		TotalReviews  int64
	}

	err := r.DB.WithContext(ctx).Model(&domain.Review{}).
		Select("product_id, AVG(rating) AS average_rating, COUNT(*) AS total_reviews").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	for _, row := range rows {
		out[row.ProductID] = domain.RatingSummary{
			AverageRating: row.AverageRating,
			TotalReviews:  row.TotalReviews,
		}
	}

	return out, nil
}

// Update writes the scalar columns and, when images or variants are non-nil,
// replaces those collections in the same transaction.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product, images []domain.ProductImage, variants []domain.ProductVariant) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
			"name":        product.Name,
			"slug":        product.Slug,
			"description": product.Description,
			"price":       product.Price,
			"discount":    product.Discount,
			"stock":       product.Stock,
			"is_active":   product.IsActive,
			"is_featured": product.IsFeatured,
			"category_id": product.CategoryID,
		})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return domain.Errorf(domain.ErrConflict, "product slug already exists")
			}
			return fmt.Errorf("failed to update product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.Errorf(domain.ErrNotFound, "product not found")
		}

		if images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&domain.ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to clear product images: %w", err)
			}
			for i := range images {
				images[i].ID = 0
				images[i].ProductID = product.ID
			}
			if len(images) > 0 {
				if err := tx.Create(&images).Error; err != nil {
					return fmt.Errorf("failed to save product images: %w", err)
				}
			}
		}

		if variants != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&domain.ProductVariant{}).Error; err != nil {
				return fmt.Errorf("failed to clear product variants: %w", err)
			}
			for i := range variants {
				variants[i].ID = 0
				variants[i].ProductID = product.ID
			}
			if len(variants) > 0 {
				if err := tx.Create(&variants).Error; err != nil {
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						return domain.Errorf(domain.ErrConflict, "variant sku already exists")
					}
					return fmt.Errorf("failed to save product variants: %w", err)
				}
			}
		}

		return nil
	})
}

// Delete refuses products referenced by orders, and otherwise removes the
// product together with its cart, wishlist, review, image and variant rows.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ordered int64
		if err := tx.Model(&domain.OrderItem{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
			return fmt.Errorf("failed to check product orders: %w", err)
		}
		if ordered > 0 {
			return domain.Errorf(domain.ErrConflict, "product has existing orders")
		}

		for _, model := range []any{&domain.CartItem{}, &domain.WishlistItem{}, &domain.Review{}, &domain.ProductImage{}, &domain.ProductVariant{}} {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete product references: %w", err)
			}
		}

		if err := tx.Model(&domain.ProductInquiry{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach inquiries: %w", err)
		}

		result := tx.Delete(&domain.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.Errorf(domain.ErrNotFound, "product not found")
		}

		return nil
	})
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var products []domain.Product
	err := r.DB.WithContext(ctx).Preload("Category").
		Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Product{}).
		Where("is_active = ? AND stock <= ?", true, threshold).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// All loads every product with its category for exports.
func (r *ProductRepository) All(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}
