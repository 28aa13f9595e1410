package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/uygunlik/course-platform/internal/media"
	"github.com/uygunlik/course-platform/internal/repository"
)

// VideoHandler manages the video catalog and file uploads.  All routes
// are admin-only except listing, which feeds the course pages.
type VideoHandler struct {
	Videos     *repository.VideoRepo
	Settings   *repository.SettingsRepo
	Store      *media.Store
	Invalidate func() // drops cached catalog responses after a mutation
}

func NewVideoHandler(videos *repository.VideoRepo, settings *repository.SettingsRepo, store *media.Store, invalidate func()) *VideoHandler {
	return &VideoHandler{Videos: videos, Settings: settings, Store: store, Invalidate: invalidate}
}

func (h *VideoHandler) invalidate() {
	if h.Invalidate != nil {
		h.Invalidate()
	}
}

// List returns the full catalog for the admin video table.
func (h *VideoHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	videos, err := h.Videos.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load videos"})
	}
	return c.JSON(http.StatusOK, echo.Map{"videos": videos})
}

// Upload receives a multipart video file plus metadata, enforces the
// size and format limits from site settings, stores the file under a
// generated name and records the catalog row.
func (h *VideoHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}

	maxBytes := int64(settings.MaxVideoSizeMB) << 20
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "file exceeds the maximum size of " + strconv.Itoa(settings.MaxVideoSizeMB) + " MB",
		})
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !formatAllowed(settings.AllowedVideoFormats, ext) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "video format ." + ext + " is not allowed"})
	}

	var courseID *int64
	if raw := c.FormValue("course_id"); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course_id"})
		}
		courseID = &id
	}
	duration := 0
	if raw := c.FormValue("duration"); raw != "" {
		if duration, err = strconv.Atoi(raw); err != nil || duration < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration"})
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	filename := h.Store.GenerateFilename(fileHeader.Filename)
	if _, err := h.Store.Save(filename, src); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("upload: save file")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store file"})
	}

	video, err := h.Videos.Create(ctx, title, c.FormValue("description"), filename, courseID, duration)
	if err != nil {
		// The row is the source of truth; without it the file is garbage.
		_ = h.Store.Remove(filename)
		log.Error().Err(err).Msg("upload: create video record")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save video"})
	}

	h.invalidate()
	return c.JSON(http.StatusCreated, echo.Map{"video": video})
}

// Update edits video metadata. The stored file and its name never change.
func (h *VideoHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid video id"})
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		CourseID    *int64  `json:"course_id"`
		Duration    *int    `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	video, err := h.Videos.Update(ctx, id, repository.VideoPatch{
		Title:       body.Title,
		Description: body.Description,
		CourseID:    body.CourseID,
		Duration:    body.Duration,
	})
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update video"})
	}

	h.invalidate()
	return c.JSON(http.StatusOK, echo.Map{"video": video})
}

// Delete removes the catalog row first, then the on-disk file.  A failed
// file removal is logged but not surfaced: the video is already gone from
// every listing and the filename is never reused.
func (h *VideoHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid video id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	video, err := h.Videos.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete video"})
	}
	if err := h.Store.Remove(video.Filename); err != nil {
		log.Warn().Err(err).Str("filename", video.Filename).Msg("delete video: remove file")
	}

	h.invalidate()
	return c.JSON(http.StatusOK, echo.Map{"message": "video deleted"})
}

func formatAllowed(allowed []string, ext string) bool {
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}
