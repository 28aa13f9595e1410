package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/queue"
	"github.com/uygunlik/course-platform/internal/repository"
	"github.com/uygunlik/course-platform/internal/service"
	"github.com/uygunlik/course-platform/internal/utils"
)

// ProgressHandler records and reads per-video watch progress.
type ProgressHandler struct {
	Progress *repository.ProgressRepo
	Videos   *repository.VideoRepo
}

func NewProgressHandler(progress *repository.ProgressRepo, videos *repository.VideoRepo) *ProgressHandler {
	return &ProgressHandler{Progress: progress, Videos: videos}
}

// Update ingests one playback sample. Progress and completion are derived
// server-side; the row for (user, video) is upserted atomically so two
// racing samples resolve to last-write-wins, never a duplicate row.
func (h *ProgressHandler) Update(c echo.Context) error {
	claims, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var body struct {
		VideoID     *int64   `json:"videoId"`
		CurrentTime *float64 `json:"currentTime"`
		Duration    *float64 `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VideoID == nil || *body.VideoID <= 0 || body.CurrentTime == nil || body.Duration == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "videoId, currentTime and duration are required"})
	}

	progress, completed, err := utils.ComputeProgress(*body.CurrentTime, *body.Duration)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// Snapshot the previous row first so a completion transition can be
	// detected after the write. The upsert itself never depends on this
	// read, so the write path stays race-free. Two samples racing across
	// the completion threshold can both see previous.Completed == false,
	// so the event below is at-least-once; consumers must tolerate
	// duplicates (the log consumer just appends a second line).
	previous, err := h.Progress.Get(ctx, claims.UserID, *body.VideoID)
	if err != nil {
		log.Warn().Err(err).Msg("progress: read previous state")
	}

	row, err := h.Progress.Upsert(ctx, claims.UserID, *body.VideoID, *body.CurrentTime, *body.Duration, progress, completed)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Int64("video_id", *body.VideoID).Msg("progress: upsert")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save progress"})
	}

	if completed && (previous == nil || !previous.Completed) {
		h.publishCompletion(claims.UserID, row)
	}

	return c.JSON(http.StatusOK, row)
}

// publishCompletion emits a video.completed event off the request path.
// Event delivery is advisory; a broker outage never fails the progress
// write that triggered it.
func (h *ProgressHandler) publishCompletion(userID int64, row model.VideoProgress) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		event := queue.VideoCompletedEvent{
			UserID:      userID,
			VideoID:     row.VideoID,
			Progress:    row.Progress,
			WatchedTime: row.WatchedTime,
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if video, err := h.Videos.GetByID(ctx, row.VideoID); err == nil {
			event.VideoTitle = video.Title
			if video.CourseID != nil {
				event.CourseID = *video.CourseID
			}
		}
		_ = service.PublishVideoCompleted(ctx, event)
	}()
}

// Get serves three read shapes from one endpoint, chosen by query params:
// a single row (videoId), a batch (videoIds csv) or the full watch history.
func (h *ProgressHandler) Get(c echo.Context) error {
	claims, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if raw := c.QueryParam("videoId"); raw != "" {
		id, valid := parseID(raw)
		if !valid {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid videoId"})
		}
		row, err := h.Progress.Get(ctx, claims.UserID, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load progress"})
		}
		// An absent row answers an empty object, not 404: no progress is
		// the normal state for every unwatched video.
		if row == nil {
			return c.JSON(http.StatusOK, echo.Map{})
		}
		return c.JSON(http.StatusOK, row)
	}

	if raw := c.QueryParam("videoIds"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid videoIds"})
		}
		rows, err := h.Progress.GetForVideos(ctx, claims.UserID, ids)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load progress"})
		}
		return c.JSON(http.StatusOK, rows)
	}

	rows, err := h.Progress.ListByUser(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load history"})
	}
	return c.JSON(http.StatusOK, rows)
}

// parseIDList splits a comma separated id list, rejecting the whole batch
// on the first malformed entry.
func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, ok := parseID(p)
		if !ok {
			return nil, errors.New("malformed id: " + p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
