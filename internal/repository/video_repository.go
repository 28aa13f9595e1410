package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uygunlik/course-platform/internal/model"
)

type VideoRepo struct{ DB *sql.DB }

func NewVideoRepo(db *sql.DB) *VideoRepo { return &VideoRepo{DB: db} }

const videoColumns = "id,title,description,filename,course_id,duration,created_at,updated_at"

func scanVideo(row interface{ Scan(...any) error }) (model.Video, error) {
	var v model.Video
	var desc sql.NullString
	err := row.Scan(&v.ID, &v.Title, &desc, &v.Filename, &v.CourseID,
		&v.Duration, &v.CreatedAt, &v.UpdatedAt)
	v.Description = desc.String
	return v, err
}

// Create records an uploaded video.  filename is the generated on-disk
// name; it is unique for the lifetime of the table.
func (r *VideoRepo) Create(ctx context.Context, title, description, filename string, courseID *int64, duration int) (model.Video, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO videos (title, description, filename, course_id, duration) VALUES (?,?,?,?,?)",
		title, description, filename, courseID, duration)
	if err != nil {
		return model.Video{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Video{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a video by id.
func (r *VideoRepo) GetByID(ctx context.Context, id int64) (model.Video, error) {
	v, err := scanVideo(r.DB.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return v, ErrVideoNotFound
	}
	return v, err
}

// GetByFilename fetches a video by its streaming handle.
func (r *VideoRepo) GetByFilename(ctx context.Context, filename string) (model.Video, error) {
	v, err := scanVideo(r.DB.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE filename=? LIMIT 1", filename))
	if err == sql.ErrNoRows {
		return v, ErrVideoNotFound
	}
	return v, err
}

// ListAll returns every video, newest first.
func (r *VideoRepo) ListAll(ctx context.Context) ([]model.Video, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+videoColumns+" FROM videos ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// VideoPatch carries the updatable metadata; nil means unchanged.  The
// filename is deliberately not updatable: the on-disk file is immutable.
type VideoPatch struct {
	Title       *string
	Description *string
	CourseID    *int64
	Duration    *int
}

// Update applies a partial metadata update and returns the fresh record.
func (r *VideoRepo) Update(ctx context.Context, id int64, p VideoPatch) (model.Video, error) {
	sets := []string{}
	args := []any{}
	if p.Title != nil {
		sets = append(sets, "title=?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *p.Description)
	}
	if p.CourseID != nil {
		sets = append(sets, "course_id=?")
		args = append(args, *p.CourseID)
	}
	if p.Duration != nil {
		sets = append(sets, "duration=?")
		args = append(args, *p.Duration)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE videos SET %s WHERE id=?", strings.Join(sets, ",")), args...); err != nil {
		return model.Video{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a video row and returns the deleted record so the caller
// can remove the on-disk file afterwards.  Progress rows cascade.
func (r *VideoRepo) Delete(ctx context.Context, id int64) (model.Video, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Video{}, err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM videos WHERE id=?", id); err != nil {
		return model.Video{}, err
	}
	return v, nil
}
