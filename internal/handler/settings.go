package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uygunlik/course-platform/internal/model"
	"github.com/uygunlik/course-platform/internal/repository"
)

// SettingsHandler serves the single-row site settings.
type SettingsHandler struct {
	Settings   *repository.SettingsRepo
	Invalidate func()
}

func NewSettingsHandler(settings *repository.SettingsRepo, invalidate func()) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Invalidate: invalidate}
}

// Get returns the current settings.  The endpoint is public so the login
// and registration pages can read site name and registration state.
func (h *SettingsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": settings})
}

// Update overwrites the settings row.
func (h *SettingsHandler) Update(c echo.Context) error {
	var body struct {
		SiteName            string   `json:"site_name"`
		SiteDescription     string   `json:"site_description"`
		MaxVideoSizeMB      int      `json:"max_video_size"`
		AllowedVideoFormats []string `json:"allowed_video_formats"`
		EnableRegistration  bool     `json:"enable_registration"`
		MaintenanceMode     bool     `json:"maintenance_mode"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.SiteName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "site name is required"})
	}
	if body.MaxVideoSizeMB <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max video size must be positive"})
	}
	formats := normalizeFormats(body.AllowedVideoFormats)
	if len(formats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one video format is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	settings, err := h.Settings.Update(ctx, model.Settings{
		SiteName:            strings.TrimSpace(body.SiteName),
		SiteDescription:     strings.TrimSpace(body.SiteDescription),
		MaxVideoSizeMB:      body.MaxVideoSizeMB,
		AllowedVideoFormats: formats,
		EnableRegistration:  body.EnableRegistration,
		MaintenanceMode:     body.MaintenanceMode,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save settings"})
	}

	if h.Invalidate != nil {
		h.Invalidate()
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": settings})
}

// normalizeFormats lowercases and deduplicates extensions, dropping dots
// so "MP4" and ".mp4" both store as "mp4".
func normalizeFormats(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, f := range in {
		f = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f)), ".")
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
