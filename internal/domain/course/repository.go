package course

import "context"

type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	// List returns matching courses, newest first.
	List(ctx context.Context, f Filter) ([]Course, error)
	// AddEnrollment appends e in one atomic step conditioned on no enrollment
	// for e.UserID existing. It returns the updated course, ErrNotFound or
	// ErrAlreadyEnrolled.
	AddEnrollment(ctx context.Context, courseID string, e Enrollment) (*Course, error)
	Count(ctx context.Context) (int64, error)
}
