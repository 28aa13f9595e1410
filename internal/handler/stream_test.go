package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/uygunlik/course-platform/internal/media"
)

const streamBody = "0123456789abcdefghij" // 20 bytes

func newStreamTest(t *testing.T) (*StreamHandler, string) {
	t.Helper()
	store, err := media.NewStore(t.TempDir())
	require.NoError(t, err)

	filename := "1717171717000_test.mp4"
	_, err = store.Save(filename, strings.NewReader(streamBody))
	require.NoError(t, err)

	return NewStreamHandler(store), filename
}

func doStream(t *testing.T, h *StreamHandler, filename, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/video-stream/stream/video", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/video-stream/stream/:filename")
	c.SetParamNames("filename")
	c.SetParamValues(filename)
	require.NoError(t, h.Stream(c))
	return rec
}

func TestStreamFullFile(t *testing.T) {
	h, filename := newStreamTest(t)
	rec := doStream(t, h, filename, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, streamBody, rec.Body.String())
	require.Equal(t, "20", rec.Header().Get(echo.HeaderContentLength))
	require.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
	require.Equal(t, "video/mp4", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "public, max-age=31536000", rec.Header().Get("Cache-Control"))
}

func TestStreamPartialWindow(t *testing.T) {
	h, filename := newStreamTest(t)
	rec := doStream(t, h, filename, "bytes=5-9")

	require.Equal(t, http.StatusPartialContent, rec.Code)
	require.Equal(t, "56789", rec.Body.String())
	require.Equal(t, "5", rec.Header().Get(echo.HeaderContentLength))
	require.Equal(t, "bytes 5-9/20", rec.Header().Get("Content-Range"))
}

func TestStreamOpenEndedWindow(t *testing.T) {
	h, filename := newStreamTest(t)
	rec := doStream(t, h, filename, "bytes=15-")

	require.Equal(t, http.StatusPartialContent, rec.Code)
	require.Equal(t, "fghij", rec.Body.String())
	require.Equal(t, "bytes 15-19/20", rec.Header().Get("Content-Range"))
}

func TestStreamUnsatisfiableRange(t *testing.T) {
	h, filename := newStreamTest(t)
	for _, header := range []string{"bytes=20-", "bytes=5-25", "bytes=-5", "bytes=9-5", "bytes=abc"} {
		rec := doStream(t, h, filename, header)
		require.Equal(t, http.StatusRequestedRangeNotSatisfiable, rec.Code, "header %q", header)
		require.Equal(t, "bytes */20", rec.Header().Get("Content-Range"), "header %q", header)
	}
}

func TestStreamInvalidFilename(t *testing.T) {
	h, _ := newStreamTest(t)
	for _, name := range []string{"../secret.mp4", "a b.mp4", "nul\x00.mp4"} {
		rec := doStream(t, h, name, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, "filename %q", name)
	}
}

func TestStreamMissingFile(t *testing.T) {
	h, _ := newStreamTest(t)
	rec := doStream(t, h, "does-not-exist.mp4", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
