package handler // handler defines http handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uygunlik/course-platform/internal/middleware"
	"github.com/uygunlik/course-platform/internal/utils"
)

// dbTimeout bounds every database call made from a handler so a stalled
// connection cannot pin a request (and its pool slot) indefinitely.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// identity returns the verified claims resolved by the Identity middleware.
// Routes behind RequireAuth always have one; the second return guards the
// few handlers that run without the guard.
func identity(c echo.Context) (*utils.SessionClaims, bool) {
	claims := middleware.ClaimsFrom(c)
	return claims, claims != nil
}

// parseID parses a path or form identifier into an int64.  All identifiers
// in the system are plain integers; anything else is rejected at the
// boundary rather than coerced.
func parseID(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
