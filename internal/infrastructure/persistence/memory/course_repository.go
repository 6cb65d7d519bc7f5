package memory

import (
	"context"
	"sort"
	"sync"

	"cinda/internal/domain/course"
)

// CourseRepository keeps courses in memory. The duplicate check and the
// append in AddEnrollment happen under one lock.
type CourseRepository struct {
	mu    sync.RWMutex
	items map[string]*course.Course
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{items: make(map[string]*course.Course)}
}

func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := cloneCourse(*c)
	cp.SortLessons()

	r.mu.Lock()
	r.items[cp.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, course.ErrNotFound
	}
	cp := cloneCourse(*c)
	return &cp, nil
}

func (r *CourseRepository) List(ctx context.Context, f course.Filter) ([]course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]course.Course, 0, len(r.items))
	for _, c := range r.items {
		if f.Matches(*c) {
			out = append(out, cloneCourse(*c))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CourseRepository) AddEnrollment(ctx context.Context, courseID string, e course.Enrollment) (*course.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[courseID]
	if !ok {
		return nil, course.ErrNotFound
	}
	if err := c.Enroll(e); err != nil {
		return nil, err
	}
	cp := cloneCourse(*c)
	return &cp, nil
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func cloneCourse(c course.Course) course.Course {
	c.EnrolledStudents = cloneSlice(c.EnrolledStudents)
	lessons := make([]course.Lesson, len(c.Lessons))
	for i, l := range c.Lessons {
		l.Resources = cloneSlice(l.Resources)
		lessons[i] = l
	}
	c.Lessons = lessons
	return c
}
