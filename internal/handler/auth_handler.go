package handler

import (
	"net/http"
	"time"

	"github.com/cittafutura/booking-service/internal/authctx"
	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/cittafutura/booking-service/internal/middleware"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc          service.AuthService
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(svc service.AuthService, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	auth := g.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout, guards.Auth)
	g.GET("/me", h.Me, guards.Auth)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.svc.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return toHTTPError(err)
	}

	h.setCookie(c, token, h.tokenTTL)
	return c.JSON(http.StatusCreated, dto.AuthResponse{User: dto.ToUserResponse(user), Token: token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	h.setCookie(c, token, h.tokenTTL)
	return c.JSON(http.StatusOK, dto.AuthResponse{User: dto.ToUserResponse(user), Token: token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.setCookie(c, "", -1)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.svc.Me(ctx, authctx.ActorID(ctx))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// setCookie writes the session cookie; a negative ttl deletes it.
func (h *AuthHandler) setCookie(c echo.Context, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)
}
