package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinda/internal/database"
	"cinda/internal/domain/course"
)

const courseColumns = `id, title, category, instructor, description, image, duration, level, price,
	lessons, rating_average, rating_count, created_at`

type CourseRepository struct {
	base
}

func NewCourseRepository(db database.DB, timeout time.Duration) *CourseRepository {
	return &CourseRepository{base: newBase(db, timeout)}
}

// Create writes the course and its enrollments in one transaction.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	lessons := c.Lessons
	if lessons == nil {
		lessons = []course.Lesson{}
	}
	return r.inTx(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, `
INSERT INTO courses (id, title, category, instructor, description, image, duration, level, price,
	lessons, rating_average, rating_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			c.ID, c.Title, string(c.Category), c.Instructor, c.Description, c.Image, c.Duration, string(c.Level), c.Price,
			lessons, c.Ratings.Average, c.Ratings.Count, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert course: %w", err)
		}

		for _, e := range c.EnrolledStudents {
			if _, err := insertEnrollment(ctx, q, c.ID, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.getByID(ctx, id)
}

func (r *CourseRepository) getByID(ctx context.Context, id string) (*course.Course, error) {
	c, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	list := []course.Course{*c}
	if err := r.loadEnrollments(ctx, list); err != nil {
		return nil, err
	}
	out := list[0]
	return &out, nil
}

func (r *CourseRepository) List(ctx context.Context, f course.Filter) ([]course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
SELECT `+courseColumns+` FROM courses
WHERE ($1 = '' OR category = $1)
	AND ($2 = '' OR level = $2)
	AND ($3 = '' OR position(lower($3) in lower(title)) > 0 OR position(lower($3) in lower(description)) > 0)
ORDER BY created_at DESC, id`,
		string(f.Category), string(f.Level), strings.TrimSpace(f.Search),
	)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadEnrollments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddEnrollment relies on the (course_id, user_id) primary key so concurrent
// requests for the same pair insert at most one row.
func (r *CourseRepository) AddEnrollment(ctx context.Context, courseID string, e course.Enrollment) (*course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	n, err := insertEnrollment(ctx, r.db, courseID, e)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		var ok bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&ok); err != nil {
			return nil, fmt.Errorf("check course: %w", err)
		}
		if !ok {
			return nil, course.ErrNotFound
		}
		return nil, course.ErrAlreadyEnrolled
	}
	return r.getByID(ctx, courseID)
}

func insertEnrollment(ctx context.Context, q database.Querier, courseID string, e course.Enrollment) (int64, error) {
	at := e.EnrolledAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	n, err := q.Exec(ctx, `
INSERT INTO course_enrollments (course_id, user_id, enrolled_at, progress)
SELECT $1, $2, $3, $4 WHERE EXISTS (SELECT 1 FROM courses WHERE id = $1)
ON CONFLICT (course_id, user_id) DO NOTHING`, courseID, e.UserID, at, e.Progress)
	if err != nil {
		return 0, fmt.Errorf("insert enrollment: %w", err)
	}
	return n, nil
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

func (r *CourseRepository) loadEnrollments(ctx context.Context, list []course.Course) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].EnrolledStudents = []course.Enrollment{}
	}

	rows, err := r.db.Query(ctx, `
SELECT course_id, user_id, enrolled_at, progress FROM course_enrollments
WHERE course_id = ANY($1)
ORDER BY enrolled_at, user_id`, ids)
	if err != nil {
		return fmt.Errorf("load enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			courseID string
			e        course.Enrollment
		)
		if err := rows.Scan(&courseID, &e.UserID, &e.EnrolledAt, &e.Progress); err != nil {
			return err
		}
		if i, ok := index[courseID]; ok {
			list[i].EnrolledStudents = append(list[i].EnrolledStudents, e)
		}
	}
	return rows.Err()
}

func scanCourse(row database.Row) (*course.Course, error) {
	var (
		c             course.Course
		category, lvl string
	)
	err := row.Scan(
		&c.ID, &c.Title, &category, &c.Instructor, &c.Description, &c.Image, &c.Duration, &lvl, &c.Price,
		&c.Lessons, &c.Ratings.Average, &c.Ratings.Count, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, course.ErrNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	c.Category = course.Category(category)
	c.Level = course.Level(lvl)
	if c.Lessons == nil {
		c.Lessons = []course.Lesson{}
	}
	c.SortLessons()
	return &c, nil
}
