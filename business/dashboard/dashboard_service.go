package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	cacheTTL      = 60 * time.Second
	statsCacheKey = "stats"
	recentOrders  = 5
	topProducts   = 5

	DefaultReportMonths = 6
	MaxReportMonths     = 24
)

type OrderStatsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	OrdersByStatus(ctx context.Context) ([]domain.StatusCount, error)
	RevenueTotals(ctx context.Context) ([]decimal.Decimal, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	SalesSince(ctx context.Context, since time.Time) ([]domain.SalePoint, error)
}

type UserCounter interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

type CategoryCounter interface {
	Count(ctx context.Context) (int64, error)
}

type InquiryCounter interface {
	CountByStatus(ctx context.Context, status domain.InquiryStatus) (int64, error)
}

// Cache is optional; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Repositories struct {
	Orders     OrderStatsRepository
	Users      UserCounter
	Products   ProductCounter
	Categories CategoryCounter
	Inquiries  InquiryCounter
}

type dashboardService struct {
	repos     Repositories
	cache     Cache
	threshold int
	now       func() time.Time
}

func NewDashboardService(repos Repositories, cache Cache, lowStockThreshold int) *dashboardService {
	return &dashboardService{
		repos:     repos,
		cache:     cache,
		threshold: lowStockThreshold,
		now:       time.Now,
	}
}

func (s *dashboardService) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	return s.cache.Get(ctx, key, dest) == nil
}

func (s *dashboardService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		logger.Warn("Failed to cache dashboard data", "key", key, err)
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	if s.cached(ctx, statsCacheKey, &out) {
		return out, nil
	}
	return s.RefreshStats(ctx)
}

// RefreshStats recomputes the dashboard figures and replaces the cached copy.
func (s *dashboardService) RefreshStats(ctx context.Context) (domain.DashboardStats, error) {
	var (
		out    domain.DashboardStats
		totals []decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalUsers, err = s.repos.Users.CountByRole(gctx, domain.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		out.TotalProducts, err = s.repos.Products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.LowStockProducts, err = s.repos.Products.CountLowStock(gctx, s.threshold)
		return err
	})
	g.Go(func() (err error) {
		out.TotalCategories, err = s.repos.Categories.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalOrders, err = s.repos.Orders.CountOrders(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.PendingInquiries, err = s.repos.Inquiries.CountByStatus(gctx, domain.InquiryStatusPending)
		return err
	})
	g.Go(func() (err error) {
		out.OrdersByStatus, err = s.repos.Orders.OrdersByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		totals, err = s.repos.Orders.RevenueTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentOrders, err = s.repos.Orders.RecentOrders(gctx, recentOrders)
		return err
	})
	g.Go(func() (err error) {
		out.TopProducts, err = s.repos.Orders.TopProducts(gctx, topProducts)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	for _, sc := range out.OrdersByStatus {
		if sc.Status == domain.OrderStatusPending {
			out.PendingOrders = sc.Count
		}
	}

	revenue, mean, median, err := summarize(totals)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	out.TotalRevenue = revenue
	out.AverageOrderValue = mean
	out.MedianOrderValue = median

	s.store(ctx, statsCacheKey, out)

	return out, nil
}

// summarize returns the sum, mean and median of the order totals.
func summarize(totals []decimal.Decimal) (sum, mean, median decimal.Decimal, err error) {
	if len(totals) == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero, nil
	}

	data := make(stats.Float64Data, len(totals))
	for i, t := range totals {
		sum = sum.Add(t)
		data[i] = t.InexactFloat64()
	}

	avg, err := stats.Mean(data)
	if err != nil {
		return sum, mean, median, fmt.Errorf("failed to compute mean order value: %w", err)
	}

	mid, err := stats.Median(data)
	if err != nil {
		return sum, mean, median, fmt.Errorf("failed to compute median order value: %w", err)
	}

	return sum, decimal.NewFromFloat(avg).Round(2), decimal.NewFromFloat(mid).Round(2), nil
}

// GetSalesReport buckets revenue by calendar month (UTC) for the last
// months months, including the current one. Months with no sales are
// present with zero values.
func (s *dashboardService) GetSalesReport(ctx context.Context, months int) ([]domain.SalesMonth, error) {
	if months <= 0 {
		months = DefaultReportMonths
	}
	if months > MaxReportMonths {
		months = MaxReportMonths
	}

	key := fmt.Sprintf("sales:%d", months)
	var out []domain.SalesMonth
	if s.cached(ctx, key, &out) {
		return out, nil
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	points, err := s.repos.Orders.SalesSince(ctx, start)
	if err != nil {
		return nil, err
	}

	out = make([]domain.SalesMonth, months)
	index := make(map[string]int, months)
	for i := range out {
		month := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = domain.SalesMonth{Month: month, Revenue: decimal.Zero}
		index[month] = i
	}

	for _, p := range points {
		i, ok := index[p.CreatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(p.TotalAmount)
		out[i].Orders++
	}

	s.store(ctx, key, out)

	return out, nil
}
