package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	List(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateRole(ctx context.Context, id uint, role string) error
	Delete(ctx context.Context, id uint) error
}

// TokenStore is the optional session store; nil disables revocation.
type TokenStore interface {
	StoreToken(ctx context.Context, token string, session domain.Session, ttl time.Duration) error
	DeleteToken(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type ProfileInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type userService struct {
	userRepo   UserRepository
	tokenStore TokenStore
	validate   *validator.Validate
	tokenTTL   time.Duration
}

func NewUserService(userRepo UserRepository, tokenStore TokenStore, validate *validator.Validate, tokenTTL time.Duration) *userService {
	return &userService{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		validate:   validate,
		tokenTTL:   tokenTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	email := normalizeEmail(input.Email)

	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.User{}, domain.Errorf(domain.ErrValidation, "invalid email format")
	}

	if err := s.validate.Var(input.Password, "required,min=6"); err != nil {
		return domain.User{}, domain.Errorf(domain.ErrValidation, "password must be at least 6 characters")
	}

	if strings.TrimSpace(input.Name) == "" {
		return domain.User{}, domain.Errorf(domain.ErrValidation, "name is required")
	}

	taken, err := s.userRepo.EmailTaken(ctx, email, 0)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.Errorf(domain.ErrConflict, "email already registered")
	}

	passwordHash, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: string(passwordHash),
		Phone:    input.Phone,
		Role:     domain.RoleCustomer,
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}

	logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.User{}, domain.Errorf(domain.ErrUnauthorized, "invalid email or password")
		}
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(password, user.Password) {
		return "", domain.User{}, domain.Errorf(domain.ErrUnauthorized, "invalid email or password")
	}

	userID := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(userID, user.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.User{}, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.tokenStore != nil {
		now := time.Now()
		session := domain.Session{
			UserID:    userID,
			Role:      user.Role,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.tokenTTL),
			IPAddress: ipAddress,
			UserAgent: userAgent,
		}
		if err := s.tokenStore.StoreToken(ctx, token, session, s.tokenTTL); err != nil {
			logger.Error("Failed to store session", err)
			return "", domain.User{}, err
		}
	}

	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if s.tokenStore == nil || token == "" {
		return nil
	}
	return s.tokenStore.DeleteToken(ctx, token)
}

func (s *userService) GetProfile(ctx context.Context, id uint) (domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, input ProfileInput) (domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.User{}, domain.Errorf(domain.ErrValidation, "name is required")
		}
		user.Name = name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := s.validate.Var(email, "required,email"); err != nil {
			return domain.User{}, domain.Errorf(domain.ErrValidation, "invalid email format")
		}
		if email != user.Email {
			taken, err := s.userRepo.EmailTaken(ctx, email, user.ID)
			if err != nil {
				return domain.User{}, err
			}
			if taken {
				return domain.User{}, domain.Errorf(domain.ErrConflict, "email already registered")
			}
		}
		user.Email = email
	}

	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}

	if err := s.userRepo.UpdateProfile(ctx, &user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(oldPassword, user.Password) {
		return domain.Errorf(domain.ErrValidation, "current password is incorrect")
	}

	if err := s.validate.Var(newPassword, "required,min=6"); err != nil {
		return domain.Errorf(domain.ErrValidation, "password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, id, string(hash))
}

func (s *userService) ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error) {
	if filter.Role != "" {
		filter.Role = strings.ToUpper(filter.Role)
		if !domain.ValidRoles[filter.Role] {
			return domain.Page[domain.User]{}, domain.Errorf(domain.ErrValidation, "invalid role %q", filter.Role)
		}
	}
	return s.userRepo.List(ctx, filter)
}

func (s *userService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) UpdateUserRole(ctx context.Context, actorID, id uint, role string) (domain.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !domain.ValidRoles[role] {
		return domain.User{}, domain.Errorf(domain.ErrValidation, "invalid role %q", role)
	}

	if actorID == id {
		return domain.User{}, domain.Errorf(domain.ErrValidation, "you cannot change your own role")
	}

	current, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if current.Role == role {
		return current, nil
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return domain.User{}, err
	}

	// Issued tokens carry the old role claim.
	if err := s.revokeSessions(ctx, id); err != nil {
		return domain.User{}, err
	}

	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return domain.Errorf(domain.ErrValidation, "you cannot delete your own account")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id)
}

func (s *userService) revokeSessions(ctx context.Context, id uint) error {
	if s.tokenStore == nil {
		return nil
	}
	if err := s.tokenStore.RevokeUser(ctx, strconv.FormatUint(uint64(id), 10)); err != nil {
		logger.Error("Failed to revoke sessions", "user_id", id, err)
		return err
	}
	return nil
}
