package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository runs the read-only aggregates behind the admin
// dashboard.
type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{
		DB: db,
	}
}

var nonRevenueStatuses = []domain.OrderStatus{domain.OrderStatusCancelled, domain.OrderStatusRefunded}

func (r *DashboardRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *DashboardRepository) OrdersByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	var rows []domain.StatusCount
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return rows, nil
}

// RevenueTotals returns the total of every order that still counts as
// revenue, one value per order.
func (r *DashboardRepository) RevenueTotals(ctx context.Context) ([]decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Where("status NOT IN ?", nonRevenueStatuses).
		Pluck("total_amount", &totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load order totals: %w", err)
	}
	return totals, nil
}

func (r *DashboardRepository) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.DB.WithContext(ctx).Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}
	return orders, nil
}

func (r *DashboardRepository) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	var rows []domain.TopProduct
	err := r.DB.WithContext(ctx).Model(&domain.OrderItem{}).
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status NOT IN ?", nonRevenueStatuses).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}
	return rows, nil
}

// SalesSince returns revenue-bearing orders created at or after since.
// Bucketing happens in Go so the query stays portable across dialects.
func (r *DashboardRepository) SalesSince(ctx context.Context, since time.Time) ([]domain.SalePoint, error) {
	var rows []domain.SalePoint
	err := r.DB.WithContext(ctx).Model(&domain.Order{}).
		Select("created_at, total_amount").
		Where("created_at >= ? AND status NOT IN ?", since, nonRevenueStatuses).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	return rows, nil
}
