package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/config"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table the service owns, in no particular order;
// gorm sorts them by their foreign keys while migrating.
var Models = []any{
	&domain.User{},
	&domain.Category{},
	&domain.Product{},
	&domain.ProductImage{},
	&domain.ProductVariant{},
	&domain.Cart{},
	&domain.CartItem{},
	&domain.Wishlist{},
	&domain.WishlistItem{},
	&domain.Order{},
	&domain.OrderItem{},
	&domain.Review{},
	&domain.ProductInquiry{},
}

type gormWriter struct{}

func (gormWriter) Printf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

func newGormLogger(environment string) gormlogger.Interface {
	level := gormlogger.Info
	if environment == "production" {
		level = gormlogger.Warn
	}

	return gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// Open connects to postgres or sqlite depending on cfg.Database.Driver and
// applies the pool settings.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on", cfg.Database.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg.App.Environment),
		TranslateError: true,
		NowFunc:        nowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// SeedAdmin creates the configured administrator when no user with that
// e-mail exists yet. An empty e-mail disables seeding.
func SeedAdmin(ctx context.Context, db *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" {
		return nil
	}

	var existing domain.User
	err := db.WithContext(ctx).Unscoped().Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := domain.User{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: string(hash),
		Role:     domain.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Info("Admin account seeded", "email", admin.Email)
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
