package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/cittafutura/booking-service/internal/authctx"
	"github.com/cittafutura/booking-service/internal/idempotency"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

// Idempotency answers a repeated Idempotency-Key with the first successful
// response and rejects it with 409 while the first request is still running.
// Keys are scoped to the caller and route. Failed requests release the key.
func Idempotency(store idempotency.Store) echo.MiddlewareFunc {
	logger := log.WithField("component", "idempotency")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.Request().Header.Get(HeaderIdempotencyKey)
			if key == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			p, _ := authctx.PrincipalFrom(ctx)
			scoped := fmt.Sprintf("%d:%s:%s:%s", p.UserID, c.Request().Method, c.Path(), key)

			rec, err := store.Begin(ctx, scoped)
			switch {
			case errors.Is(err, idempotency.ErrInFlight):
				return echo.NewHTTPError(http.StatusConflict, err.Error())
			case err != nil:
				logger.WithError(err).Warn("idempotency store unavailable, serving request without it")
				return next(c)
			case rec != nil:
				c.Response().Header().Set(HeaderReplayed, "true")
				return c.Blob(rec.Status, rec.ContentType, rec.Body)
			}

			capture := &bodyCapture{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture

			if err := next(c); err != nil {
				releaseKey(c, store, scoped, logger)
				return err
			}

			status := c.Response().Status
			if status >= http.StatusBadRequest {
				releaseKey(c, store, scoped, logger)
				return nil
			}
			if err := store.Complete(ctx, scoped, idempotency.Record{
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        capture.buf.Bytes(),
			}); err != nil {
				logger.WithError(err).Warn("failed to store idempotent response")
			}
			return nil
		}
	}
}

func releaseKey(c echo.Context, store idempotency.Store, key string, logger *log.Entry) {
	if err := store.Abort(c.Request().Context(), key); err != nil {
		logger.WithError(err).Warn("failed to release idempotency key")
	}
}

type bodyCapture struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
