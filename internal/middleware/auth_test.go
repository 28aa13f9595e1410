package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/uygunlik/course-platform/internal/utils"
)

const testSecret = "middleware-test-secret"

// runIdentity sends a request through Identity and reports the claims the
// handler observed plus the response.
func runIdentity(t *testing.T, configure func(*http.Request)) (*utils.SessionClaims, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	configure(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *utils.SessionClaims
	handler := Identity(testSecret)(func(c echo.Context) error {
		seen = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return seen, rec
}

func TestIdentityFromBearer(t *testing.T) {
	token, err := utils.IssueSession(testSecret, 7, "u@example.com", "user", 7)
	require.NoError(t, err)

	claims, _ := runIdentity(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	require.NotNil(t, claims)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "user", claims.Role)
}

func TestIdentityFromCookie(t *testing.T) {
	token, err := utils.IssueSession(testSecret, 7, "u@example.com", "user", 7)
	require.NoError(t, err)

	claims, _ := runIdentity(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})
	require.NotNil(t, claims)
	require.Equal(t, int64(7), claims.UserID)
}

// The two transports must resolve to the same identity for the same token.
func TestIdentityBearerEquivalentToCookie(t *testing.T) {
	token, err := utils.IssueSession(testSecret, 99, "same@example.com", "admin", 7)
	require.NoError(t, err)

	viaBearer, _ := runIdentity(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	viaCookie, _ := runIdentity(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})
	require.NotNil(t, viaBearer)
	require.NotNil(t, viaCookie)
	require.Equal(t, *viaBearer, *viaCookie)
}

func TestIdentityBadBearerFallsBackToCookie(t *testing.T) {
	token, err := utils.IssueSession(testSecret, 3, "u@example.com", "user", 7)
	require.NoError(t, err)

	claims, _ := runIdentity(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	})
	require.NotNil(t, claims)
	require.Equal(t, int64(3), claims.UserID)
}

func TestIdentityAnonymousAndInvalid(t *testing.T) {
	claims, rec := runIdentity(t, func(r *http.Request) {})
	require.Nil(t, claims)
	require.Equal(t, http.StatusOK, rec.Code) // resolution never rejects

	wrongSecret, err := utils.IssueSession("other-secret", 1, "u@example.com", "user", 7)
	require.NoError(t, err)
	claims, _ = runIdentity(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+wrongSecret)
	})
	require.Nil(t, claims)
}

func guarded(t *testing.T, mw echo.MiddlewareFunc, claims *utils.SessionClaims) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(claimsKey, claims)
	}
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec
}

func TestRequireAuth(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, guarded(t, RequireAuth(), nil).Code)
	require.Equal(t, http.StatusOK, guarded(t, RequireAuth(), &utils.SessionClaims{UserID: 1, Role: "user"}).Code)
}

func TestRequireAdmin(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, guarded(t, RequireAdmin(), nil).Code)
	require.Equal(t, http.StatusForbidden, guarded(t, RequireAdmin(), &utils.SessionClaims{UserID: 1, Role: "user"}).Code)
	require.Equal(t, http.StatusOK, guarded(t, RequireAdmin(), &utils.SessionClaims{UserID: 1, Role: "admin"}).Code)
}
