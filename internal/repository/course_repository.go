package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uygunlik/course-platform/internal/model"
)

type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseColumns = "id,title,description,price,created_at,updated_at"

func scanCourse(row interface{ Scan(...any) error }) (model.Course, error) {
	var c model.Course
	var desc sql.NullString
	err := row.Scan(&c.ID, &c.Title, &desc, &c.Price, &c.CreatedAt, &c.UpdatedAt)
	c.Description = desc.String
	c.Videos = []model.Video{}
	return c, err
}

// Create inserts a course and returns the stored record.
func (r *CourseRepo) Create(ctx context.Context, title, description string, price float64) (model.Course, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (title, description, price) VALUES (?,?,?)",
		title, description, price)
	if err != nil {
		return model.Course{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Course{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID fetches a course together with its videos.
func (r *CourseRepo) GetByID(ctx context.Context, id int64) (model.Course, error) {
	c, err := scanCourse(r.DB.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return c, ErrCourseNotFound
	}
	if err != nil {
		return c, err
	}
	if err := r.attachVideos(ctx, []*model.Course{&c}); err != nil {
		return c, err
	}
	return c, nil
}

// ListAll returns every course, newest first, each with its videos.
func (r *CourseRepo) ListAll(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, "SELECT "+courseColumns+" FROM courses ORDER BY created_at DESC")
}

// ListByUser returns the courses a user is enrolled in, newest first, each
// with its videos.
func (r *CourseRepo) ListByUser(ctx context.Context, userID int64) ([]model.Course, error) {
	return r.list(ctx,
		`SELECT c.id,c.title,c.description,c.price,c.created_at,c.updated_at
		 FROM courses c INNER JOIN user_courses uc ON c.id = uc.course_id
		 WHERE uc.user_id=? ORDER BY c.created_at DESC`, userID)
}

func (r *CourseRepo) list(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Course, len(courses))
	for i := range courses {
		refs[i] = &courses[i]
	}
	if err := r.attachVideos(ctx, refs); err != nil {
		return nil, err
	}
	return courses, nil
}

// attachVideos loads the videos for a set of courses in one IN query and
// distributes them by course_id, oldest first (playlist order).
func (r *CourseRepo) attachVideos(ctx context.Context, courses []*model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Course, len(courses))
	placeholders := make([]string, 0, len(courses))
	args := make([]any, 0, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
		placeholders = append(placeholders, "?")
		args = append(args, c.ID)
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,title,description,filename,course_id,duration,created_at,updated_at
		 FROM videos WHERE course_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY created_at ASC`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v model.Video
		var desc sql.NullString
		if err := rows.Scan(&v.ID, &v.Title, &desc, &v.Filename, &v.CourseID,
			&v.Duration, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return err
		}
		v.Description = desc.String
		if v.CourseID != nil {
			if c, ok := byID[*v.CourseID]; ok {
				c.Videos = append(c.Videos, v)
			}
		}
	}
	return rows.Err()
}

// CoursePatch carries the updatable fields; nil means unchanged.
type CoursePatch struct {
	Title       *string
	Description *string
	Price       *float64
}

// Update applies a partial update and returns the fresh record.
func (r *CourseRepo) Update(ctx context.Context, id int64, p CoursePatch) (model.Course, error) {
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
	if p.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *p.Price)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	if _, err := r.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE courses SET %s WHERE id=?", strings.Join(sets, ",")), args...); err != nil {
		return model.Course{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a course; videos, enrollments and progress cascade.
func (r *CourseRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	return nil
}
