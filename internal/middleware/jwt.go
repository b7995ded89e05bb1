package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/routing"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the session claims into the request context.  Handlers read
// the user id via c.Get("user_id") and the routing claims via
// c.Get("claims") (a routing.Claims value).  The provided secret must match
// the one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set("user_id", claims["sub"])
			c.Set("role", claims["role"])
			c.Set("claims", routingClaims(claims))
			return next(c)
		}
	}
}

// routingClaims converts raw JWT claims into the typed set the routing
// state machine classifies on.  Missing fields read as zero values, which
// classify conservatively (a doctor with no specialization claim is sent to
// profile completion).
func routingClaims(m jwt.MapClaims) routing.Claims {
	str := func(key string) string {
		if v, ok := m[key].(string); ok {
			return v
		}
		return ""
	}
	boolean := func(key string) bool {
		if v, ok := m[key].(bool); ok {
			return v
		}
		return false
	}
	return routing.Claims{
		Authenticated:          true,
		Role:                   str("role"),
		IsApproved:             boolean("is_approved"),
		NeedsProfileCompletion: boolean("needs_profile_completion"),
		Specialization:         str("specialization"),
		LicenseNumber:          str("license_number"),
	}
}
