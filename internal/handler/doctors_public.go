package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/repository"
)

// DirectoryHandler serves the public doctor directory.
type DirectoryHandler struct {
	Users *repository.UserRepo
}

func NewDirectoryHandler(u *repository.UserRepo) *DirectoryHandler {
	return &DirectoryHandler{Users: u}
}

type doctorEntry struct {
	ID             uint64 `json:"id"`
	FullName       string `json:"full_name"`
	Specialization string `json:"specialization"`
}

// List returns approved doctors, optionally filtered with
// ?specialization=. Emails and license numbers stay private.
func (h *DirectoryHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	docs, err := h.Users.ListApprovedDoctors(ctx, c.QueryParam("specialization"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]doctorEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, doctorEntry{
			ID:             d.ID,
			FullName:       d.FullName,
			Specialization: strOrEmpty(d.Specialization),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"doctors": out})
}
