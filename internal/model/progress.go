package model

import "time"

// VideoProgress mirrors the `video_progress` table: one row per
// (user_id, video_id) pair, enforced by a unique key.  Progress and
// Completed are derived server-side from WatchedTime/TotalDuration;
// LastWatched advances on every write.
type VideoProgress struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	VideoID       int64     `json:"video_id"`
	WatchedTime   float64   `json:"watched_time"`
	TotalDuration float64   `json:"total_duration"`
	Progress      float64   `json:"progress"`
	Completed     bool      `json:"completed"`
	LastWatched   time.Time `json:"last_watched"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CourseCompletion is the dashboard aggregate: how many of a course's
// videos the user has finished.
type CourseCompletion struct {
	CourseID    int64   `json:"course_id"`
	CourseTitle string  `json:"course_title"`
	TotalVideos int     `json:"total_videos"`
	Completed   int     `json:"completed"`
	Percent     float64 `json:"percent"`
}
