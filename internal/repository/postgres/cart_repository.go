package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

// GetOrCreate returns the user's cart with items and products, creating an
// empty cart the first time.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).Where(domain.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent request for the same user
		err = r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to get cart: %w", err)
	}

	err = r.DB.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("cart_id = ?", cart.ID).
		Order("created_at ASC, id ASC").
		Find(&cart.Items).Error
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to load cart items: %w", err)
	}

	return cart, nil
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, productID uint) (domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.CartItem
	err := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, domain.Errorf(domain.ErrNotFound, "item not found in cart")
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

// SetQuantity creates the cart line or overwrites its quantity in a single
// upsert on idx_cart_product.
func (r *CartRepository) SetQuantity(ctx context.Context, cartID, productID uint, quantity int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	item := domain.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to set cart item: %w", err)
	}

	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, productID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&domain.CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "item not found in cart")
	}

	return nil
}

func (r *CartRepository) Clear(ctx context.Context, cartID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
