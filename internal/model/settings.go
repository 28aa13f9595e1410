package model

import "time"

// Settings mirrors the single-row `settings` table (id = 1).  The allowed
// formats column is stored as a comma-separated list and exposed as a
// slice.
type Settings struct {
	ID                  int64     `json:"id"`
	SiteName            string    `json:"site_name"`
	SiteDescription     string    `json:"site_description"`
	MaxVideoSizeMB      int       `json:"max_video_size"`
	AllowedVideoFormats []string  `json:"allowed_video_formats"`
	EnableRegistration  bool      `json:"enable_registration"`
	MaintenanceMode     bool      `json:"maintenance_mode"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultSettings are served when the settings row is missing (fresh
// database before EnsureSchema seeded it).
func DefaultSettings() Settings {
	return Settings{
		ID:                  1,
		SiteName:            "Uygunlik Learning Platform",
		SiteDescription:     "Professional online learning platform",
		MaxVideoSizeMB:      500,
		AllowedVideoFormats: []string{"mp4", "webm", "avi", "mov"},
		EnableRegistration:  true,
	}
}
