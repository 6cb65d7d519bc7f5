package memory

import (
	"context"
	"sort"
	"sync"

	"cinda/internal/domain/mentorship"
)

type MentorshipRepository struct {
	mu    sync.RWMutex
	items map[string]*mentorship.Mentorship
}

func NewMentorshipRepository() *MentorshipRepository {
	return &MentorshipRepository{items: make(map[string]*mentorship.Mentorship)}
}

func (r *MentorshipRepository) Create(ctx context.Context, m *mentorship.Mentorship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := cloneMentorship(*m)

	r.mu.Lock()
	r.items[cp.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *MentorshipRepository) GetByID(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return nil, mentorship.ErrNotFound
	}
	cp := cloneMentorship(*m)
	return &cp, nil
}

func (r *MentorshipRepository) Save(ctx context.Context, m *mentorship.Mentorship) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.ID]; !ok {
		return mentorship.ErrNotFound
	}
	cp := cloneMentorship(*m)
	r.items[cp.ID] = &cp
	return nil
}

func (r *MentorshipRepository) ListByMentor(ctx context.Context, mentorID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, func(m *mentorship.Mentorship) bool { return m.MentorID == mentorID })
}

func (r *MentorshipRepository) ListByMentee(ctx context.Context, menteeID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, func(m *mentorship.Mentorship) bool { return m.MenteeID == menteeID })
}

func (r *MentorshipRepository) list(ctx context.Context, keep func(*mentorship.Mentorship) bool) ([]mentorship.Mentorship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]mentorship.Mentorship, 0)
	for _, m := range r.items {
		if keep(m) {
			out = append(out, cloneMentorship(*m))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneMentorship(m mentorship.Mentorship) mentorship.Mentorship {
	m.Specialties = cloneSlice(m.Specialties)
	m.Sessions = cloneSlice(m.Sessions)
	m.Messages = cloneSlice(m.Messages)
	return m
}
