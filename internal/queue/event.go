// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// CompletionQueueName is the durable queue carrying video completion events.
const CompletionQueueName = "video.completed"

// VideoCompletedEvent is published when a (user, video) progress pair
// reaches completed.  Delivery is at-least-once: racing samples can emit
// the same completion twice, so consumers must be duplicate-tolerant.  It
// carries enough for downstream consumers to log or feed analytics without
// querying the primary database.
type VideoCompletedEvent struct {
	UserID      int64   `json:"user_id"`
	VideoID     int64   `json:"video_id"`
	VideoTitle  string  `json:"video_title,omitempty"`
	CourseID    int64   `json:"course_id,omitempty"`
	Progress    float64 `json:"progress"`
	WatchedTime float64 `json:"watched_time"`
	CompletedAt string  `json:"completed_at"`
}
