package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/it-is-Aman/ram-enterprise/pkg/logger"
	jsonres "github.com/it-is-Aman/ram-enterprise/pkg/response"

	"github.com/labstack/echo/v4"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:            "BAD_REQUEST",
	http.StatusUnauthorized:          "UNAUTHORIZED",
	http.StatusForbidden:             "FORBIDDEN",
	http.StatusNotFound:              "NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	http.StatusTooManyRequests:       "TOO_MANY_REQUESTS",
	http.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorHandler renders errors that escape the handlers, including router
// misses and recovered panics, in the JSON error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		message = fmt.Sprint(he.Message)
		if status >= http.StatusInternalServerError {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled error", "method", c.Request().Method, "path", c.Path(), err)
	}

	code, ok := statusCodes[status]
	if !ok {
		code = strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
	if code == "" {
		code = "INTERNAL_SERVER_ERROR"
	}

	var respErr error
	if c.Request().Method == http.MethodHead {
		respErr = c.NoContent(status)
	} else {
		respErr = c.JSON(status, jsonres.Error(code, message, nil))
	}
	if respErr != nil {
		logger.Error("Failed to write error response", respErr)
	}
}
