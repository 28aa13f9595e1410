package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/uygunlik/course-platform/internal/media"
)

// StreamHandler serves stored video files with byte-range support.  The
// hot path touches only the filesystem: filename validation, one stat and
// one open, no database round-trips.
type StreamHandler struct {
	Store *media.Store
}

func NewStreamHandler(store *media.Store) *StreamHandler {
	return &StreamHandler{Store: store}
}

// Stream answers GET /stream/:filename with either the full file (200) or
// the requested byte window (206).  Malformed or unsatisfiable Range
// headers get an explicit 416 carrying the file size.
func (h *StreamHandler) Stream(c echo.Context) error {
	filename := c.Param("filename")
	if !media.ValidFilename(filename) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filename"})
	}

	f, info, err := h.Store.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		log.Error().Err(err).Str("filename", filename).Msg("stream: open file")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open video"})
	}
	defer f.Close()

	size := info.Size()
	rng, err := media.ParseRange(c.Request().Header.Get("Range"), size)
	if err != nil {
		c.Response().Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		return c.JSON(http.StatusRequestedRangeNotSatisfiable, echo.Map{"error": "requested range not satisfiable"})
	}

	header := c.Response().Header()
	header.Set("Accept-Ranges", "bytes")
	header.Set("Cache-Control", "public, max-age=31536000")
	header.Set(echo.HeaderContentType, media.ContentType(filename))

	if rng == nil {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(size, 10))
		c.Response().WriteHeader(http.StatusOK)
		return copyBody(c, f, size)
	}

	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("stream: seek")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read video"})
	}
	header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, size))
	header.Set(echo.HeaderContentLength, strconv.FormatInt(rng.Length(), 10))
	c.Response().WriteHeader(http.StatusPartialContent)
	return copyBody(c, f, rng.Length())
}

// copyBody streams n bytes to the client.  Write errors after the status
// line are almost always the player aborting a seek, so they are logged at
// debug and swallowed; the response is already committed.
func copyBody(c echo.Context, src io.Reader, n int64) error {
	if _, err := io.CopyN(c.Response(), src, n); err != nil {
		log.Debug().Err(err).Msg("stream: client closed connection")
	}
	return nil
}
