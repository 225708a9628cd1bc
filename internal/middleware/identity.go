package middleware

// identity.go holds helpers shared across middleware files.  userID is
// used by the rate limiter and response cache to key entries per user.

import (
	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user id from context, falling back
// to "guest" for unauthenticated requests.
func userID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "guest"
}
