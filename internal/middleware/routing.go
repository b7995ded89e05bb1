package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Maxzi3/health-app-sub000/internal/routing"
)

// RouteGuard admits a request only when the session classifies into one of
// the allowed routing states.  A refused request gets 403 together with the
// landing path the client should redirect to, so the server guard and the
// client bootstrap act on the same classification.  The guard runs after
// JWTAuth, which stores the typed claims in the context.
func RouteGuard(states ...routing.State) echo.MiddlewareFunc {
	allowed := make(map[routing.State]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := routing.Classify(SessionClaims(c))
			if !allowed[state] {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":    "wrong_screen",
					"state":    state.String(),
					"redirect": state.Target(),
				})
			}
			return next(c)
		}
	}
}

// SessionClaims reads the typed routing claims stored by JWTAuth.  An
// absent or mistyped value classifies as unauthenticated.
func SessionClaims(c echo.Context) routing.Claims {
	if v, ok := c.Get("claims").(routing.Claims); ok {
		return v
	}
	return routing.Claims{}
}
