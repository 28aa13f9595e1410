package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/uygunlik/course-platform/internal/config"
	"github.com/uygunlik/course-platform/internal/middleware"
	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/repository"
	"github.com/uygunlik/course-platform/internal/utils"
)

// AuthHandler serves registration, login and the current-user profile.
type AuthHandler struct {
	Cfg      *config.Config
	Users    *repository.UserRepo
	Settings *repository.SettingsRepo
}

func NewAuthHandler(cfg *config.Config, users *repository.UserRepo, settings *repository.SettingsRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Settings: settings}
}

// setSessionCookie mirrors the session token into an httpOnly cookie so
// browser clients authenticate without storing the token in script-readable
// state. API clients keep using the bearer header.
func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.Cfg.SessionTTLDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates a new account when self-registration is enabled.
func (h *AuthHandler) Register(c echo.Context) error {
	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.FirstName == "" || body.Email == "" || len(body.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first name, email and a password of at least 6 characters are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	if !settings.EnableRegistration {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "registration is disabled"})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process password"})
	}

	user, err := h.Users.Create(ctx, body.FirstName, body.LastName, body.Email, hash, model.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		log.Error().Err(err).Msg("register: create user")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}

	token, err := utils.IssueSession(h.Cfg.JWTSecret, user.ID, user.Email, user.Role, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session"})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		log.Error().Err(err).Msg("login: lookup user")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account is blocked"})
	}

	token, err := utils.IssueSession(h.Cfg.JWTSecret, user.ID, user.Email, user.Role, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session"})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// Logout drops the session cookie. The token itself simply expires.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateMe lets a user edit their own profile fields.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	claims, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var body struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	patch := repository.UserPatch{FirstName: body.FirstName, LastName: body.LastName}
	if body.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*body.Email))
		if email == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email cannot be empty"})
		}
		patch.Email = &email
	}
	if body.Password != nil {
		if len(*body.Password) < 6 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(*body.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to process password"})
		}
		patch.PasswordHash = &hash
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.Update(ctx, claims.UserID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
