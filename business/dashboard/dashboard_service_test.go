package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/repository/postgres"
	"github.com/it-is-Aman/ram-enterprise/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memCache struct {
	entries map[string][]byte
	sets    int
}

func (c *memCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := c.entries[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func newService(db *gorm.DB, cache Cache) *dashboardService {
	repos := Repositories{
		Orders:     postgres.NewDashboardRepository(db),
		Users:      postgres.NewUserRepository(db),
		Products:   postgres.NewProductRepository(db),
		Categories: postgres.NewCategoryRepository(db),
		Inquiries:  postgres.NewInquiryRepository(db),
	}
	return NewDashboardService(repos, cache, 5)
}

func seed(t *testing.T, db *gorm.DB) (lamp, vase domain.Product) {
	asha := testutil.CreateUser(t, db, "asha@example.com", domain.RoleCustomer)
	ravi := testutil.CreateUser(t, db, "ravi@example.com", domain.RoleCustomer)
	testutil.CreateUser(t, db, "admin@example.com", domain.RoleAdmin)

	category := testutil.CreateCategory(t, db, "Lighting")
	lamp = testutil.CreateProduct(t, db, category.ID, "Lamp", 900, 10, 20)
	vase = testutil.CreateProduct(t, db, category.ID, "Vase", 300, 0, 3)

	testutil.CreateOrder(t, db, asha.ID, lamp, 1, domain.OrderStatusPending)
	testutil.CreateOrder(t, db, asha.ID, lamp, 2, domain.OrderStatusPaid)
	testutil.CreateOrder(t, db, ravi.ID, lamp, 1, domain.OrderStatusCancelled)
	testutil.CreateOrder(t, db, ravi.ID, vase, 4, domain.OrderStatusDelivered)

	inquiry := domain.ProductInquiry{
		Reference: "ref-1",
		Name:      "Guest",
		Email:     "guest@example.com",
		Message:   "price?",
		Status:    domain.InquiryStatusPending,
	}
	require.NoError(t, db.Create(&inquiry).Error)

	return lamp, vase
}

func TestGetStats(t *testing.T) {
	db := testutil.NewDB(t)
	_, vase := seed(t, db)
	cache := &memCache{entries: map[string][]byte{}}
	svc := newService(db, cache)

	got, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.TotalUsers)
	assert.Equal(t, int64(2), got.TotalProducts)
	assert.Equal(t, int64(1), got.TotalCategories)
	assert.Equal(t, int64(4), got.TotalOrders)
	assert.Equal(t, int64(1), got.PendingOrders)
	assert.Equal(t, int64(1), got.PendingInquiries)
	assert.Equal(t, int64(1), got.LowStockProducts)

	// 810 + 1620 + 1200; the cancelled order is excluded.
	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(3630)), got.TotalRevenue.String())
	assert.True(t, got.AverageOrderValue.Equal(decimal.NewFromInt(1210)), got.AverageOrderValue.String())
	assert.True(t, got.MedianOrderValue.Equal(decimal.NewFromInt(1200)), got.MedianOrderValue.String())

	assert.Len(t, got.OrdersByStatus, 4)
	assert.Len(t, got.RecentOrders, 4)
	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, vase.ID, got.TopProducts[0].ProductID)
	assert.Equal(t, int64(4), got.TopProducts[0].Quantity)

	assert.Equal(t, 1, cache.sets)

	_, err = svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}

func TestGetStats_Empty(t *testing.T) {
	svc := newService(testutil.NewDB(t), nil)

	got, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.True(t, got.TotalRevenue.IsZero())
	assert.True(t, got.MedianOrderValue.IsZero())
	assert.Empty(t, got.TopProducts)
}

func TestGetSalesReport(t *testing.T) {
	db := testutil.NewDB(t)
	lamp, _ := seed(t, db)
	svc := newService(db, nil)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	user := testutil.CreateUser(t, db, "old@example.com", domain.RoleCustomer)
	old := testutil.CreateOrder(t, db, user.ID, lamp, 1, domain.OrderStatusPaid)
	ancient := testutil.CreateOrder(t, db, user.ID, lamp, 1, domain.OrderStatusPaid)

	require.NoError(t, db.Model(&domain.Order{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, db.Model(&domain.Order{}).Where("id = ?", ancient.ID).
		UpdateColumn("created_at", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, db.Model(&domain.Order{}).Where("id NOT IN ?", []uint{old.ID, ancient.ID}).
		UpdateColumn("created_at", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)).Error)

	report, err := svc.GetSalesReport(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, report, 3)

	assert.Equal(t, "2026-01", report[0].Month)
	assert.Equal(t, int64(1), report[0].Orders)
	assert.True(t, report[0].Revenue.Equal(decimal.NewFromInt(810)))

	assert.Equal(t, "2026-02", report[1].Month)
	assert.Equal(t, int64(0), report[1].Orders)
	assert.True(t, report[1].Revenue.IsZero())

	assert.Equal(t, "2026-03", report[2].Month)
	assert.Equal(t, int64(3), report[2].Orders)
	assert.True(t, report[2].Revenue.Equal(decimal.NewFromInt(3630)), report[2].Revenue.String())

	report, err = svc.GetSalesReport(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, report, DefaultReportMonths)

	report, err = svc.GetSalesReport(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, report, MaxReportMonths)
}
