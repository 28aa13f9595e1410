package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/repository"
)

// DashboardHandler aggregates per-course completion for the user's home
// screen.
type DashboardHandler struct {
	Courses  *repository.CourseRepo
	Progress *repository.ProgressRepo
}

func NewDashboardHandler(courses *repository.CourseRepo, progress *repository.ProgressRepo) *DashboardHandler {
	return &DashboardHandler{Courses: courses, Progress: progress}
}

// Get returns the user's enrolled courses with a completion summary per
// course.  Completion counts videos whose stored progress reached 100,
// fetched in one batch query across all enrolled courses.
func (h *DashboardHandler) Get(c echo.Context) error {
	claims, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	courses, err := h.Courses.ListByUser(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courses"})
	}

	videoIDs := []int64{}
	for _, course := range courses {
		for _, v := range course.Videos {
			videoIDs = append(videoIDs, v.ID)
		}
	}

	rows, err := h.Progress.GetForVideos(ctx, claims.UserID, videoIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load progress"})
	}
	completedByVideo := make(map[int64]bool, len(rows))
	for _, row := range rows {
		completedByVideo[row.VideoID] = row.Completed
	}

	summaries := make([]model.CourseCompletion, 0, len(courses))
	for _, course := range courses {
		summary := model.CourseCompletion{
			CourseID:    course.ID,
			CourseTitle: course.Title,
			TotalVideos: len(course.Videos),
		}
		for _, v := range course.Videos {
			if completedByVideo[v.ID] {
				summary.Completed++
			}
		}
		if summary.TotalVideos > 0 {
			summary.Percent = float64(summary.Completed) / float64(summary.TotalVideos) * 100
		}
		summaries = append(summaries, summary)
	}

	return c.JSON(http.StatusOK, echo.Map{"courses": courses, "completion": summaries})
}
