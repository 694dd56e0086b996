// Package testutil opens throwaway sqlite databases and seeds fixtures for
// repository and service tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/database"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database private to the test.
// A single connection keeps every query on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// Password is the plain-text password of every fixture user.
const Password = "secret123"

func CreateUser(t *testing.T, db *gorm.DB, email, role string) domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := domain.User{
		Name:     "User " + email,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) domain.Category {
	t.Helper()

	category := domain.Category{Name: name, Slug: utils.Slugify(name)}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// CreateProduct stores an active product with the given price, discount
// percent and stock.
func CreateProduct(t *testing.T, db *gorm.DB, categoryID uint, name string, price, discount float64, stock int) domain.Product {
	t.Helper()

	product := domain.Product{
		Name:       name,
		Slug:       uuid.NewString(),
		Price:      decimal.NewFromFloat(price),
		Discount:   decimal.NewFromFloat(discount),
		Stock:      stock,
		IsActive:   true,
		CategoryID: categoryID,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func ReloadProduct(t *testing.T, db *gorm.DB, id uint) domain.Product {
	t.Helper()

	var product domain.Product
	require.NoError(t, db.First(&product, id).Error)
	return product
}

// CreateOrder stores an order with a single item in the given status.
func CreateOrder(t *testing.T, db *gorm.DB, userID uint, product domain.Product, quantity int, status domain.OrderStatus) domain.Order {
	t.Helper()

	item := domain.NewOrderItem(product, quantity)
	order := domain.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Status:          status,
		TotalAmount:     item.Subtotal,
		PaymentMethod:   domain.PaymentMethodCOD,
		ShippingName:    "Test Buyer",
		ShippingPhone:   "0800000000",
		ShippingAddress: "1 Test Street",
		ShippingCity:    "Testville",
		Items:           []domain.OrderItem{item},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}
