package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

type OrdersRepository struct {
	DB *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{
		DB: db,
	}
}

// Create inserts the order and its items, takes the ordered quantities out of
// stock and empties the buyer's cart, all in one transaction. A stock
// decrement that would go negative rolls everything back.
func (r *OrdersRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range order.Items {
			result := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domain.Errorf(domain.ErrInsufficientStock, "insufficient stock for %s", item.ProductName)
			}
		}

		carts := tx.Model(&domain.Cart{}).Select("id").Where("user_id = ?", order.UserID)
		if err := tx.Where("cart_id IN (?)", carts).Delete(&domain.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
}

func (r *OrdersRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	var order domain.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return domain.Order{}, notFound(err, "order")
	}

	return order, nil
}

func orderScope(filter domain.OrderFilter) scope {
	return func(db *gorm.DB) *gorm.DB {
		if filter.UserID != 0 {
			db = db.Where("orders.user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			db = db.Where("orders.status = ?", filter.Status)
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where("(LOWER(orders.order_number) LIKE ? ESCAPE '\\' OR LOWER(orders.shipping_name) LIKE ? ESCAPE '\\')", pattern, pattern)
		}
		if filter.From != nil {
			db = db.Where("orders.created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			db = db.Where("orders.created_at <= ?", *filter.To)
		}
		return db
	}
}

func (r *OrdersRepository) List(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("context error: %w", err)
	}

	page, err := paginate[domain.Order](ctx, r.DB, filter.PageQuery, orderScope(filter), func(db *gorm.DB) *gorm.DB {
		return db.Preload("Items").Preload("User").Order("orders.created_at DESC, orders.id DESC")
	})
	if err != nil {
		return domain.Page[domain.Order]{}, fmt.Errorf("failed to list orders: %w", err)
	}

	return page, nil
}

// Export returns every order matching filter, newest first, ignoring paging.
func (r *OrdersRepository) Export(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var orders []domain.Order
	err := r.DB.WithContext(ctx).
		Scopes(orderScope(filter)).
		Preload("Items").
		Preload("User").
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	return orders, nil
}

// Cancel moves the order from its current status to CANCELLED. When the
// order held stock its items are put back in the same transaction. The
// update is conditional on the status the caller saw, so a concurrent
// change surfaces as ErrInvalidState instead of a double restore.
func (r *OrdersRepository) Cancel(ctx context.Context, order domain.Order) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now().UTC()

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{
				"status":       domain.OrderStatusCancelled,
				"cancelled_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.Errorf(domain.ErrInvalidState, "order status has changed, please retry")
		}

		if !order.Status.HoldsStock() {
			return nil
		}

		for _, item := range order.Items {
			err := tx.Model(&domain.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		return nil
	})
}

// UpdateStatus applies a non-cancelling transition guarded on the previous
// status.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.OrderStatus) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updates := map[string]interface{}{"status": to}
	if to == domain.OrderStatusDelivered {
		updates["delivered_at"] = time.Now().UTC()
	}

	result := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrInvalidState, "order status has changed, please retry")
	}

	return nil
}

// HasDelivered reports whether the user has a DELIVERED order that contains
// the product.
func (r *OrdersRepository) HasDelivered(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?", userID, domain.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check delivered orders: %w", err)
	}

	return count > 0, nil
}
