package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/repository"
)

// UserAdminHandler covers the admin user-management screens: listing,
// role and status toggles, enrollment assignment and removal.
type UserAdminHandler struct {
	Users *repository.UserRepo
}

func NewUserAdminHandler(users *repository.UserRepo) *UserAdminHandler {
	return &UserAdminHandler{Users: users}
}

// List returns one page of users with the total for pagination.
func (h *UserAdminHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	search := strings.TrimSpace(c.QueryParam("search"))

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, total, err := h.Users.List(ctx, page, limit, search)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "total": total})
}

// UpdateRole promotes or demotes a user.
func (h *UserAdminHandler) UpdateRole(c echo.Context) error {
	var body struct {
		UserID int64  `json:"userId"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId is required"})
	}
	if body.Role != model.RoleUser && body.Role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be user or admin"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateRole(ctx, body.UserID, body.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated"})
}

// UpdateStatus blocks or unblocks an account.  A blocked user keeps their
// data but fails the next login.
func (h *UserAdminHandler) UpdateStatus(c echo.Context) error {
	var body struct {
		UserID int64 `json:"userId"`
		Status *bool `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.UserID <= 0 || body.Status == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId and status are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateStatus(ctx, body.UserID, *body.Status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated"})
}

// AssignCourses replaces a user's enrollment set with the posted ids.
func (h *UserAdminHandler) AssignCourses(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var body struct {
		CourseIDs []int64 `json:"courseIds"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	for _, cid := range body.CourseIDs {
		if cid <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id in list"})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user"})
	}
	if err := h.Users.ReplaceCourses(ctx, id, body.CourseIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign courses"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "courses assigned"})
}

// Delete removes a user account.  Admins cannot delete themselves; the
// check keeps the last admin from locking everyone out by accident.
func (h *UserAdminHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if claims, ok := identity(c); ok && claims.UserID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
