package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	jsonres "github.com/it-is-Aman/ram-enterprise/pkg/response"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// TokenValidator looks a token up in the session store and returns the user
// id it was issued to.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

type authError struct {
	status  int
	code    string
	message string
}

func (e *authError) respond(c echo.Context) error {
	return c.JSON(e.status, jsonres.Error(e.code, e.message, nil))
}

func unauthorized(message string) *authError {
	return &authError{status: http.StatusUnauthorized, code: "UNAUTHORIZED", message: message}
}

// authenticate validates the bearer token and stores the caller on the
// context. A nil validator skips the session store check.
func authenticate(c echo.Context, validator TokenValidator) *authError {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return unauthorized("Missing authorization header")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return unauthorized("Invalid authorization format")
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		logger.Debug("Failed to parse JWT", err)
		return unauthorized("Invalid token")
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || expAt == nil || time.Now().After(expAt.Time) {
		return unauthorized("Token expired")
	}

	if validator != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		userID, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			logger.Debug("Token not found in session store", err)
			return unauthorized("Token expired or invalid")
		}

		if userID != claims.UserID {
			logger.Warn("UserID mismatch between JWT and session store", "jwt_user_id", claims.UserID)
			return unauthorized("Invalid token")
		}
	}

	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("Invalid user ID in token", err)
		return unauthorized("Invalid user ID in token")
	}

	c.Set(ContextUserID, uint(userIDUint))
	c.Set(ContextRole, claims.Role)
	c.Set(ContextToken, tokenString)

	return nil
}

// AuthMiddleware basic JWT authentication without a session store.
func AuthMiddleware() echo.MiddlewareFunc {
	return AuthMiddlewareWithRedis(nil)
}

// AuthMiddlewareWithRedis JWT authentication that also requires the token to
// be present in the session store.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authErr := authenticate(c, tokenValidator); authErr != nil {
				return authErr.respond(c)
			}
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when a valid bearer token is sent and
// lets anonymous requests through otherwise.
func OptionalAuth(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "" {
				if authErr := authenticate(c, tokenValidator); authErr != nil {
					logger.Debug("Ignoring invalid optional credentials", "reason", authErr.message)
				}
			}
			return next(c)
		}
	}
}

func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Get(ContextRole)
			roleStr, ok := role.(string)
			if !ok || strings.ToUpper(roleStr) != domain.RoleAdmin {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}

			return next(c)
		}
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok && id != 0
}

func Actor(c echo.Context) domain.Actor {
	id, _ := UserID(c)
	role, _ := c.Get(ContextRole).(string)
	return domain.Actor{UserID: id, Role: strings.ToUpper(role)}
}

func Token(c echo.Context) string {
	token, _ := c.Get(ContextToken).(string)
	return token
}
