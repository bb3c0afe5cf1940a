package handler

import "github.com/labstack/echo/v4"

// Guards are the route middlewares handlers attach to their endpoints.
type Guards struct {
	Auth        echo.MiddlewareFunc
	Staff       echo.MiddlewareFunc
	Idempotency echo.MiddlewareFunc
}
