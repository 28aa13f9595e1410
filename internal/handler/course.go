package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/repository"
)

// CourseHandler serves the course catalog and its admin CRUD.
type CourseHandler struct {
	Courses    *repository.CourseRepo
	Invalidate func()
}

func NewCourseHandler(courses *repository.CourseRepo, invalidate func()) *CourseHandler {
	return &CourseHandler{Courses: courses, Invalidate: invalidate}
}

func (h *CourseHandler) invalidate() {
	if h.Invalidate != nil {
		h.Invalidate()
	}
}

// List returns the catalog.  Admins see everything; regular users see only
// the courses they are enrolled in.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	claims, ok := identity(c)
	if ok && claims.Role != model.RoleAdmin {
		courses, err := h.Courses.ListByUser(ctx, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courses"})
		}
		return c.JSON(http.StatusOK, echo.Map{"courses": courses})
	}

	courses, err := h.Courses.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load courses"})
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": courses})
}

// Get returns a single course with its video list.
func (h *CourseHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load course"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course": course})
}

// Create adds a course.
func (h *CourseHandler) Create(c echo.Context) error {
	var body struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.Create(ctx, body.Title, body.Description, body.Price)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create course"})
	}

	h.invalidate()
	return c.JSON(http.StatusCreated, echo.Map{"course": course})
}

// Update edits course fields.
func (h *CourseHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	var body struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
	}
	if body.Price != nil && *body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	course, err := h.Courses.Update(ctx, id, repository.CoursePatch{
		Title:       body.Title,
		Description: body.Description,
		Price:       body.Price,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update course"})
	}

	h.invalidate()
	return c.JSON(http.StatusOK, echo.Map{"course": course})
}

// Delete removes a course; its videos, enrollments and progress cascade.
func (h *CourseHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete course"})
	}

	h.invalidate()
	return c.JSON(http.StatusOK, echo.Map{"message": "course deleted"})
}
