package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	var user domain.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return domain.User{}, notFound(err, "user")
	}

	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	var user domain.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return domain.User{}, notFound(err, "user")
	}

	return user, nil
}

// EmailTaken reports whether another account, soft-deleted ones included,
// already uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return count > 0, nil
}

func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error) {
	if err := ctx.Err(); err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("context error: %w", err)
	}

	where := func(db *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			db = db.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\')", pattern, pattern)
		}
		if filter.Role != "" {
			db = db.Where("role = ?", filter.Role)
		}
		return db
	}

	page, err := paginate[domain.User](ctx, r.DB, filter.PageQuery, where, func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	})
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("failed to list users: %w", err)
	}

	return page, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(user).
		Select("name", "email", "phone", "address").
		Updates(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.Errorf(domain.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "user not found")
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "user not found")
	}

	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "user not found")
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.Errorf(domain.ErrNotFound, "user not found")
	}

	return nil
}

// CountByRole backs the dashboard customer count.
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&domain.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
