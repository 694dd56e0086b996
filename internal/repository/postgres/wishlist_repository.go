package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

type WishlistRepository struct {
	DB *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{
		DB: db,
	}
}

func (r *WishlistRepository) GetOrCreate(ctx context.Context, userID uint) (domain.Wishlist, error) {
	if err := ctx.Err(); err != nil {
		return domain.Wishlist{}, fmt.Errorf("context error: %w", err)
	}

	var wishlist domain.Wishlist
	err := r.DB.WithContext(ctx).Where(domain.Wishlist{UserID: userID}).FirstOrCreate(&wishlist).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&wishlist).Error
	}
	if err != nil {
		return domain.Wishlist{}, fmt.Errorf("failed to get wishlist: %w", err)
	}

	err = r.DB.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("wishlist_id = ?", wishlist.ID).
		Order("created_at DESC, id DESC").
		Find(&wishlist.Items).Error
	if err != nil {
		return domain.Wishlist{}, fmt.Errorf("failed to load wishlist items: %w", err)
	}

	return wishlist, nil
}

func (r *WishlistRepository) AddItem(ctx context.Context, wishlistID, productID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	item := domain.WishlistItem{WishlistID: wishlistID, ProductID: productID}
	if err := r.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "product already in wishlist")
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *WishlistRepository) HasItem(ctx context.Context, wishlistID, productID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.WishlistItem{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}
	return count > 0, nil
}

func (r *WishlistRepository) RemoveItem(ctx context.Context, wishlistID, productID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).Delete(&domain.WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "item not found in wishlist")
	}

	return nil
}

func (r *WishlistRepository) Clear(ctx context.Context, wishlistID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("wishlist_id = ?", wishlistID).Delete(&domain.WishlistItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}

	return nil
}
