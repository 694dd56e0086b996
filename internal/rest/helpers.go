package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"
	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	jsonres "github.com/it-is-Aman/ram-enterprise/pkg/response"
	"github.com/it-is-Aman/ram-enterprise/pkg/utils"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const defaultTimeout = 10 * time.Second

func handlerTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", message, nil))
}

// respondError maps service errors onto status codes. Anything that is not a
// domain error is logged and hidden behind a generic 500.
func respondError(c echo.Context, action string, err error) error {
	status, code := http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusBadRequest, "CONFLICT"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = http.StatusBadRequest, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidState):
		status, code = http.StatusBadRequest, "INVALID_STATE"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	}

	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, err)
		return c.JSON(status, jsonres.Error(code, "Internal server error", nil))
	}

	logger.Debug("Request rejected", "action", action, "status", status, err)
	return c.JSON(status, jsonres.Error(code, err.Error(), nil))
}

// bind decodes the request body into req and validates it. The returned
// error is already written to the client.
func bind(c echo.Context, v *validator.Validate, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		logger.Debug("Invalid request body", err)
		return false, badRequest(c, "invalid request body")
	}

	if err := v.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, jsonres.Error("VALIDATION_ERROR", validationMessage(err), nil))
	}

	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func parseID(c echo.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func pageQuery(c echo.Context) domain.PageQuery {
	page, limit := utils.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	return domain.PageQuery{Page: page, Limit: limit}
}

func queryBool(c echo.Context, name string) bool {
	return cast.ToBool(c.QueryParam(name))
}

func queryUint(c echo.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	v, err := cast.ToUintE(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &d, nil
}

// queryTime accepts any common date layout and reads it as UTC.
func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date", name)
	}
	t = t.UTC()
	return &t, nil
}

func paginated[T any](c echo.Context, page domain.Page[T]) error {
	return c.JSON(http.StatusOK, jsonres.Paginated(page.Items, page.Pagination))
}

func respondOK(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, jsonres.Success(data, message))
}

func respondCreated(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, jsonres.Success(data, message))
}
