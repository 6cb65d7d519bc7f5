package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cinda/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*user.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email := user.NormalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return user.ErrEmailTaken
	}
	cp := cloneUser(*u)
	cp.Email = email
	r.byID[cp.ID] = &cp
	r.byEmail[email] = cp.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := cloneUser(*u)
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	id, ok := r.byEmail[user.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, user.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) RecordLogin(ctx context.Context, id string, upd user.LoginUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	at := upd.At.UTC()
	u.LastLogin = &at
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	upd.Apply(u)
	cp := cloneUser(*u)
	return &cp, nil
}

func (r *UserRepository) AddEnrolledCourse(ctx context.Context, id, courseID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	if !u.IsEnrolledIn(courseID) {
		u.EnrolledCourses = append(u.EnrolledCourses, courseID)
	}
	return nil
}

func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))

	r.mu.RLock()
	out := make([]user.User, 0)
	for _, u := range r.byID {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Bio), q) ||
			strings.Contains(strings.ToLower(u.Location), q) {
			out = append(out, cloneUser(*u))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stats.Followers != out[j].Stats.Followers {
			return out[i].Stats.Followers > out[j].Stats.Followers
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneUser(u user.User) user.User {
	u.Specialization = cloneSlice(u.Specialization)
	u.EnrolledCourses = cloneSlice(u.EnrolledCourses)
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return u
}
