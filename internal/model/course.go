package model

import "time"

// Course mirrors the `courses` table.  Videos is populated by the
// repository from the videos table via course_id; course ownership of a
// video lives in exactly one place.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Videos      []Video   `json:"videos"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
