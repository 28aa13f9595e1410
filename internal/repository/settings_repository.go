package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uygunlik/course-platform/internal/model"
)

// SettingsRepo reads and writes the single settings row (id = 1).
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// Get returns the site settings, falling back to defaults when the row is
// missing.
func (r *SettingsRepo) Get(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	var formats string
	var desc sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,site_name,site_description,max_video_size_mb,allowed_video_formats,
		        enable_registration,maintenance_mode,created_at,updated_at
		 FROM settings WHERE id=1`).
		Scan(&s.ID, &s.SiteName, &desc, &s.MaxVideoSizeMB, &formats,
			&s.EnableRegistration, &s.MaintenanceMode, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	s.SiteDescription = desc.String
	s.AllowedVideoFormats = splitFormats(formats)
	return s, nil
}

// Update overwrites the settings row and returns the stored state.  The
// row is created when missing so a wiped table heals on the next save.
func (r *SettingsRepo) Update(ctx context.Context, s model.Settings) (model.Settings, error) {
	formats := strings.Join(s.AllowedVideoFormats, ",")
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO settings (id, site_name, site_description, max_video_size_mb,
		                       allowed_video_formats, enable_registration, maintenance_mode)
		 VALUES (1,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   site_name = VALUES(site_name),
		   site_description = VALUES(site_description),
		   max_video_size_mb = VALUES(max_video_size_mb),
		   allowed_video_formats = VALUES(allowed_video_formats),
		   enable_registration = VALUES(enable_registration),
		   maintenance_mode = VALUES(maintenance_mode)`,
		s.SiteName, s.SiteDescription, s.MaxVideoSizeMB, formats,
		s.EnableRegistration, s.MaintenanceMode)
	if err != nil {
		return model.Settings{}, err
	}
	return r.Get(ctx)
}

func splitFormats(csv string) []string {
	out := []string{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
