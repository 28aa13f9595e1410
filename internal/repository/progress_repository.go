package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uygunlik/course-platform/internal/model"
)

// ProgressRepo persists per-(user, video) watch state.  The unique key
// uq_user_video guarantees at most one row per pair; all writes go through
// the single-statement upsert, so concurrent samples from the same session
// (the periodic tick racing the ended handler near end-of-video) resolve
// to last-write-wins without a read-modify-write window.
type ProgressRepo struct{ DB *sql.DB }

func NewProgressRepo(db *sql.DB) *ProgressRepo { return &ProgressRepo{DB: db} }

const progressColumns = "id,user_id,video_id,watched_time,total_duration,progress,completed,last_watched,created_at,updated_at"

func scanProgress(row interface{ Scan(...any) error }) (model.VideoProgress, error) {
	var p model.VideoProgress
	err := row.Scan(&p.ID, &p.UserID, &p.VideoID, &p.WatchedTime, &p.TotalDuration,
		&p.Progress, &p.Completed, &p.LastWatched, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Upsert inserts or overwrites the row for (userID, videoID) atomically and
// returns the stored state.  progress and completed are computed by the
// caller; last_watched advances on every write.
func (r *ProgressRepo) Upsert(ctx context.Context, userID, videoID int64, watchedTime, totalDuration, progress float64, completed bool) (model.VideoProgress, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO video_progress (user_id, video_id, watched_time, total_duration, progress, completed, last_watched)
		 VALUES (?,?,?,?,?,?,NOW())
		 ON DUPLICATE KEY UPDATE
		   watched_time = VALUES(watched_time),
		   total_duration = VALUES(total_duration),
		   progress = VALUES(progress),
		   completed = VALUES(completed),
		   last_watched = NOW()`,
		userID, videoID, watchedTime, totalDuration, progress, completed)
	if err != nil {
		return model.VideoProgress{}, err
	}
	p, err := r.Get(ctx, userID, videoID)
	if err != nil {
		return model.VideoProgress{}, err
	}
	return *p, nil
}

// Get returns the progress row for a pair, or nil when the user has not
// watched the video yet.  Absence is a normal state, not an error.
func (r *ProgressRepo) Get(ctx context.Context, userID, videoID int64) (*model.VideoProgress, error) {
	p, err := scanProgress(r.DB.QueryRowContext(ctx,
		"SELECT "+progressColumns+" FROM video_progress WHERE user_id=? AND video_id=? LIMIT 1",
		userID, videoID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForVideos returns the progress rows a user has for the given video
// ids.  Videos without a row are simply absent from the result; an empty
// id list returns an empty slice without touching the database.
func (r *ProgressRepo) GetForVideos(ctx context.Context, userID int64, videoIDs []int64) ([]model.VideoProgress, error) {
	if len(videoIDs) == 0 {
		return []model.VideoProgress{}, nil
	}
	placeholders := make([]string, 0, len(videoIDs))
	args := []any{userID}
	for _, id := range videoIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+progressColumns+" FROM video_progress WHERE user_id=? AND video_id IN ("+
			strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProgress(rows)
}

// ListByUser returns the user's full watch history, most recently watched
// first.
func (r *ProgressRepo) ListByUser(ctx context.Context, userID int64) ([]model.VideoProgress, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+progressColumns+" FROM video_progress WHERE user_id=? ORDER BY last_watched DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProgress(rows)
}

func collectProgress(rows *sql.Rows) ([]model.VideoProgress, error) {
	out := []model.VideoProgress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
