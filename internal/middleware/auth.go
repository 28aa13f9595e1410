package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/utils"
)

// CookieName is the session cookie carrying the same token format as the
// Authorization header.
const CookieName = "token"

// claimsKey is the context key under which a resolved identity is stored.
const claimsKey = "session_claims"

// Identity returns a middleware that resolves a verified identity from the
// request, preferring an `Authorization: Bearer` header and falling back to
// the session cookie.  Resolution is side-effect-free and never rejects:
// when both sources are absent or verification fails, the request proceeds
// with no identity and downstream guards decide whether to 401 or degrade.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := resolve(c, secret); claims != nil {
				c.Set(claimsKey, claims)
			}
			return next(c)
		}
	}
}

// resolve tries the bearer header then the cookie.  Either source must hold
// a token verifiable against the server secret; anything else yields nil.
func resolve(c echo.Context, secret string) *utils.SessionClaims {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if claims, err := utils.VerifySession(secret, raw); err == nil {
			return claims
		}
		// A bad bearer token does not shadow a valid cookie.
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if claims, err := utils.VerifySession(secret, cookie.Value); err == nil {
			return claims
		}
	}
	return nil
}

// ClaimsFrom returns the identity resolved by Identity, or nil for an
// anonymous request.
func ClaimsFrom(c echo.Context) *utils.SessionClaims {
	claims, _ := c.Get(claimsKey).(*utils.SessionClaims)
	return claims
}

// RequireAuth rejects anonymous requests with 401.  It assumes Identity
// ran earlier in the chain.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ClaimsFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects authenticated requests whose role is not admin with
// 403, and anonymous requests with 401.  The role check is deliberately
// separate from identity resolution.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if claims.Role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
