package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// LoginUpdate is applied atomically on successful authentication.
type LoginUpdate struct {
	At   time.Time
	Role *Role
}

type Repository interface {
	// Create fails with ErrEmailTaken when the email is already stored.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	RecordLogin(ctx context.Context, id string, upd LoginUpdate) error
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
	// AddEnrolledCourse appends courseID to the user's enrolled list with set semantics.
	AddEnrolledCourse(ctx context.Context, id, courseID string) error
	Search(ctx context.Context, q string, limit int) ([]User, error)
}
