package middleware

import (
	"errors"
	"net/http"

	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as JSON. String messages become
// {"message": ...}; structured messages (conflict details) are sent as-is.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var body any = dto.ErrorResponse{Message: "internal server error"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			body = dto.ErrorResponse{Message: m}
		case error:
			body = dto.ErrorResponse{Message: m.Error()}
		case nil:
			body = dto.ErrorResponse{Message: http.StatusText(code)}
		default:
			body = m
		}
	}

	if code >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"component": "http",
			"method":    c.Request().Method,
			"path":      c.Path(),
		}).WithError(err).Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}
