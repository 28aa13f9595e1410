package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// schemaStatements creates every table the service needs.  All statements
// are idempotent; EnsureSchema runs them in order exactly once per process,
// from main, before the HTTP server starts accepting requests.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(255) NOT NULL,
		last_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		filename VARCHAR(255) NOT NULL UNIQUE,
		course_id BIGINT UNSIGNED NULL,
		duration INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_videos_course FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS user_courses (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		course_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_user_course (user_id, course_id),
		CONSTRAINT fk_uc_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_uc_course FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id TINYINT UNSIGNED PRIMARY KEY,
		site_name VARCHAR(255) NOT NULL DEFAULT 'Uygunlik Learning Platform',
		site_description TEXT,
		max_video_size_mb INT NOT NULL DEFAULT 500,
		allowed_video_formats VARCHAR(255) NOT NULL DEFAULT 'mp4,webm,avi,mov',
		enable_registration TINYINT(1) NOT NULL DEFAULT 1,
		maintenance_mode TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS video_progress (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		video_id BIGINT UNSIGNED NOT NULL,
		watched_time DECIMAL(10,2) NOT NULL DEFAULT 0,
		total_duration DECIMAL(10,2) NOT NULL DEFAULT 0,
		progress DECIMAL(5,2) NOT NULL DEFAULT 0,
		completed TINYINT(1) NOT NULL DEFAULT 0,
		last_watched DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_user_video (user_id, video_id),
		CONSTRAINT fk_vp_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT fk_vp_video FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
	)`,
}

// EnsureSchema verifies the database is reachable, retrying transient
// connection failures with linear backoff, then applies the idempotent DDL.
// It replaces the lazily-checked "schema ready" pattern: callers invoke it
// once at startup and the request layer can assume the tables exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const maxAttempts = 5
	const baseDelay = time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = db.PingContext(ctx); lastErr == nil {
			break
		}
		delay := time.Duration(attempt) * baseDelay // linear backoff
		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", delay).
			Msg("database not ready")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if lastErr != nil {
		return fmt.Errorf("database unreachable after %d attempts: %w", maxAttempts, lastErr)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	// Single settings row; later updates go through the settings repository.
	if _, err := db.ExecContext(ctx, `INSERT IGNORE INTO settings (id) VALUES (1)`); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

// SeedAdmin creates the administrator account when it does not exist yet.
// passwordHash must already be a bcrypt hash; an empty email or hash skips
// the seed entirely.
func SeedAdmin(ctx context.Context, db *sql.DB, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}
	res, err := db.ExecContext(ctx,
		`INSERT IGNORE INTO users (first_name, last_name, email, password_hash, role, is_active)
		 VALUES ('Admin', 'User', ?, ?, 'admin', 1)`,
		email, passwordHash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Info().Str("email", email).Msg("seeded admin account")
	}
	return nil
}
