package mentorship

import "context"

// Repository persists mentorship aggregates. Callers serialize mutations of a
// single mentorship; Save replaces the stored document wholesale.
type Repository interface {
	Create(ctx context.Context, m *Mentorship) error
	GetByID(ctx context.Context, id string) (*Mentorship, error)
	Save(ctx context.Context, m *Mentorship) error
	// ListByMentor and ListByMentee return newest first.
	ListByMentor(ctx context.Context, mentorID string) ([]Mentorship, error)
	ListByMentee(ctx context.Context, menteeID string) ([]Mentorship, error)
}
