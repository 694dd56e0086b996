package rest

import (
	"context"
	"time"

	"github.com/it-is-Aman/ram-enterprise/business/user"
	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, input user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (string, domain.User, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, id uint) (domain.User, error)
	UpdateProfile(ctx context.Context, id uint, input user.ProfileInput) (domain.User, error)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error)
	GetUser(ctx context.Context, id uint) (domain.User, error)
	UpdateUserRole(ctx context.Context, actorID, id uint, role string) (domain.User, error)
	DeleteUser(ctx context.Context, actorID, id uint) error
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     handlerTimeout(timeout),
	}
}

type UserRegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=120"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req UserRegisterRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.Register(ctx, user.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return respondError(c, "register user", err)
	}

	return respondCreated(c, u, "Registration successful")
}

func (h *UserHandler) Login(c echo.Context) error {
	var req UserLoginRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	token, u, err := h.userService.Login(ctx, req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, "login", err)
	}

	return respondOK(c, loginResponse{Token: token, User: u}, "Login successful")
}

func (h *UserHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.Logout(ctx, middleware.Token(c)); err != nil {
		return respondError(c, "logout", err)
	}

	return respondOK(c, nil, "Logout successful")
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		return respondError(c, "get profile", err)
	}

	return respondOK(c, u, "")
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req UserUpdateRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.UpdateProfile(ctx, userID, user.ProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return respondError(c, "update profile", err)
	}

	return respondOK(c, u, "Profile updated")
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req ChangePasswordRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, "change password", err)
	}

	return respondOK(c, nil, "Password changed")
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	page, err := h.userService.ListUsers(ctx, domain.UserFilter{
		PageQuery: pageQuery(c),
		Search:    c.QueryParam("search"),
		Role:      c.QueryParam("role"),
	})
	if err != nil {
		return respondError(c, "list users", err)
	}

	return paginated(c, page)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	u, err := h.userService.GetUser(ctx, id)
	if err != nil {
		return respondError(c, "get user", err)
	}

	return respondOK(c, u, "")
}

func (h *UserHandler) UpdateUserRole(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid user id")
	}

	var req UpdateRoleRequest
	if valid, err := bind(c, h.validator, &req); !valid {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	actorID, _ := middleware.UserID(c)
	u, err := h.userService.UpdateUserRole(ctx, actorID, id, req.Role)
	if err != nil {
		return respondError(c, "update user role", err)
	}

	return respondOK(c, u, "Role updated")
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, valid := parseID(c, "id")
	if !valid {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	actorID, _ := middleware.UserID(c)
	if err := h.userService.DeleteUser(ctx, actorID, id); err != nil {
		return respondError(c, "delete user", err)
	}

	return respondOK(c, nil, "User deleted")
}
