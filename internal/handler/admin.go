package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/config"
	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// AdminHandler holds the operator endpoints. Access is gated by a static
// API key header rather than a user role; approval is an operations task
// performed by the platform team, not a third account type.
type AdminHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u}
}

// RequireKey guards the admin group with the X-Admin-Key header. With no
// key configured the endpoints are disabled entirely.
func (h *AdminHandler) RequireKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.Cfg.AdminAPIKey == "" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		key := c.Request().Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.Cfg.AdminAPIKey)) != 1 {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin key"})
		}
		return next(c)
	}
}

// ApproveDoctor marks a profile-complete doctor as approved. The doctor
// sees the change after refreshing their tokens.
func (h *AdminHandler) ApproveDoctor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid doctor id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ApproveDoctor(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "doctor profile incomplete"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "doctor approved"})
}
