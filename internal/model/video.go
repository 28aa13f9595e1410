package model

import "time"

// Video mirrors the `videos` table.  Filename is the generated on-disk
// name and the only handle the streaming endpoint accepts; it is assigned
// at upload time and never reused.
type Video struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	CourseID    *int64    `json:"course_id"`
	Duration    int       `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
