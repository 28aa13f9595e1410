package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/uygunlik/course-platform/internal/config"
)

func newCacheBackend(t *testing.T) (config.CacheConfig, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return config.CacheConfig{
		Enabled:      true,
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}, rdb
}

// runCached sends one request through the cache middleware, simulating the
// parameterized catalog route.
func runCached(t *testing.T, mw echo.MiddlewareFunc, target string, h echo.HandlerFunc, configure func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if configure != nil {
		configure(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/courses/:id")
	require.NoError(t, mw(h)(c))
	return rec
}

func TestCatalogKeyUsesConcretePath(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	key := func(target string) string {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/courses/:id")
		return catalogKey(cfg, c)
	}

	// Distinct ids under the same route template must never share a key.
	require.NotEqual(t, key("/courses/1"), key("/courses/2"))
	require.Equal(t, key("/courses/1"), key("/courses/1"))
	require.NotEqual(t, key("/courses/1"), key("/courses/1?page=2"))
}

func TestCatalogCacheDistinctPathParams(t *testing.T) {
	cfg, rdb := newCacheBackend(t)
	mw := CatalogCache(cfg, rdb)

	echoPath := func(c echo.Context) error {
		return c.String(http.StatusOK, "body for "+c.Request().URL.Path)
	}

	first := runCached(t, mw, "/courses/1", echoPath, nil)
	require.Equal(t, "body for /courses/1", first.Body.String())

	// A different id must get its own body, not course 1's cached one.
	second := runCached(t, mw, "/courses/2", echoPath, nil)
	require.Equal(t, "body for /courses/2", second.Body.String())
	require.Empty(t, second.Header().Get("X-Cache"))

	// Repeating the first id replays its own entry.
	replay := runCached(t, mw, "/courses/1", echoPath, nil)
	require.Equal(t, "HIT", replay.Header().Get("X-Cache"))
	require.Equal(t, "body for /courses/1", replay.Body.String())
}

func TestCatalogCacheReplaysStatusAndContentType(t *testing.T) {
	cfg, rdb := newCacheBackend(t)
	mw := CatalogCache(cfg, rdb)

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"courses": []string{"intro"}})
	}

	miss := runCached(t, mw, "/courses/7", handler, nil)
	require.Equal(t, 1, calls)
	require.Empty(t, miss.Header().Get("X-Cache"))

	hit := runCached(t, mw, "/courses/7", handler, nil)
	require.Equal(t, 1, calls, "replay must not invoke the handler")
	require.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	require.Equal(t, http.StatusOK, hit.Code)
	require.Equal(t, miss.Body.String(), hit.Body.String())
	require.Equal(t, miss.Header().Get(echo.HeaderContentType), hit.Header().Get(echo.HeaderContentType))
}

func TestCatalogCacheBypassesCredentialedRequests(t *testing.T) {
	cfg, rdb := newCacheBackend(t)
	mw := CatalogCache(cfg, rdb)

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "private view")
	}

	withBearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer some-token") }
	withCookie := func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "some-token"}) }

	for _, configure := range []func(*http.Request){withBearer, withCookie} {
		runCached(t, mw, "/courses/1", handler, configure)
		runCached(t, mw, "/courses/1", handler, configure)
	}
	require.Equal(t, 4, calls, "credentialed requests must never be served from cache")

	keys, err := rdb.Keys(t.Context(), "*").Result()
	require.NoError(t, err)
	require.Empty(t, keys, "credentialed responses must never be stored")
}

func TestCatalogCacheSkipsNon200(t *testing.T) {
	cfg, rdb := newCacheBackend(t)
	mw := CatalogCache(cfg, rdb)

	calls := 0
	handler := func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}

	runCached(t, mw, "/courses/404", handler, nil)
	rec := runCached(t, mw, "/courses/404", handler, nil)
	require.Equal(t, 2, calls, "error responses must not be cached")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
