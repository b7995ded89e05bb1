// Package handler contains the HTTP endpoint implementations.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/model"
	"github.com/Maxzi3/health-app-sub000/internal/utils"
)

// currentUserID extracts the authenticated user's id set by the JWT
// middleware. JWT numeric claims decode as float64; some clients encode the
// subject as a string, so both forms are accepted.
func currentUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case uint64:
		return v
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// sessionClaimsFor snapshots the user fields the route guard classifies on.
func sessionClaimsFor(u model.User) utils.SessionClaims {
	return utils.SessionClaims{
		UserID:                 u.ID,
		Role:                   u.Role,
		IsApproved:             u.IsApproved,
		NeedsProfileCompletion: u.NeedsProfileCompletion,
		Specialization:         strOrEmpty(u.Specialization),
		LicenseNumber:          strOrEmpty(u.LicenseNumber),
	}
}
