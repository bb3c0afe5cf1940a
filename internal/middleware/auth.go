package middleware

import (
	"net/http"
	"strings"

	"github.com/cittafutura/booking-service/internal/authctx"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

// TokenCookie holds the session JWT for browser clients.
const TokenCookie = "token"

type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// Authenticate requires a valid JWT from the token cookie or an
// Authorization: Bearer header and stores the principal on the request
// context.
func Authenticate(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				if cookie, err := c.Cookie(TokenCookie); err == nil {
					raw = cookie.Value
				}
			}
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := parser.ParseToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			p := authctx.Principal{UserID: claims.UserID, Role: claims.Role}
			c.SetRequest(c.Request().WithContext(authctx.WithPrincipal(c.Request().Context(), p)))
			return next(c)
		}
	}
}

// Authorize lets through principals holding one of roles. It must run after
// Authenticate.
func Authorize(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := authctx.PrincipalFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
