package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

type TopProduct struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalePoint is one revenue-bearing order reduced to what the sales report
// needs.
type SalePoint struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

type DashboardStats struct {
	TotalUsers        int64           `json:"total_users"`
	TotalProducts     int64           `json:"total_products"`
	TotalCategories   int64           `json:"total_categories"`
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	PendingOrders     int64           `json:"pending_orders"`
	PendingInquiries  int64           `json:"pending_inquiries"`
	LowStockProducts  int64           `json:"low_stock_products"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	MedianOrderValue  decimal.Decimal `json:"median_order_value"`
	OrdersByStatus    []StatusCount   `json:"orders_by_status"`
	RecentOrders      []Order         `json:"recent_orders"`
	TopProducts       []TopProduct    `json:"top_products"`
}

type SalesMonth struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}
