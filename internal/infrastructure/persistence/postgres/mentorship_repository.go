package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinda/internal/database"
	"cinda/internal/domain/mentorship"
)

const mentorshipColumns = `id, mentor_id, mentee_id, status, specialties, bio, years_experience,
	available_slots, sessions, messages, created_at`

type MentorshipRepository struct {
	base
}

func NewMentorshipRepository(db database.DB, timeout time.Duration) *MentorshipRepository {
	return &MentorshipRepository{base: newBase(db, timeout)}
}

func (r *MentorshipRepository) Create(ctx context.Context, m *mentorship.Mentorship) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	normalizeMentorship(m)
	_, err := r.db.Exec(ctx, `
INSERT INTO mentorships (id, mentor_id, mentee_id, status, specialties, bio, years_experience,
	available_slots, sessions, messages, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.MentorID, m.MenteeID, string(m.Status), m.Specialties, m.Bio, m.YearsExperience,
		m.AvailableSlots, m.Sessions, m.Messages, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mentorship: %w", err)
	}
	return nil
}

func (r *MentorshipRepository) GetByID(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	return scanMentorship(r.db.QueryRow(ctx, `SELECT `+mentorshipColumns+` FROM mentorships WHERE id = $1`, id))
}

func (r *MentorshipRepository) Save(ctx context.Context, m *mentorship.Mentorship) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	normalizeMentorship(m)
	n, err := r.db.Exec(ctx, `
UPDATE mentorships SET status = $2, specialties = $3, bio = $4, years_experience = $5,
	available_slots = $6, sessions = $7, messages = $8
WHERE id = $1`,
		m.ID, string(m.Status), m.Specialties, m.Bio, m.YearsExperience,
		m.AvailableSlots, m.Sessions, m.Messages,
	)
	if err != nil {
		return fmt.Errorf("save mentorship: %w", err)
	}
	if n == 0 {
		return mentorship.ErrNotFound
	}
	return nil
}

func (r *MentorshipRepository) ListByMentor(ctx context.Context, mentorID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, `SELECT `+mentorshipColumns+` FROM mentorships WHERE mentor_id = $1 ORDER BY created_at DESC, id`, mentorID)
}

func (r *MentorshipRepository) ListByMentee(ctx context.Context, menteeID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, `SELECT `+mentorshipColumns+` FROM mentorships WHERE mentee_id = $1 ORDER BY created_at DESC, id`, menteeID)
}

func (r *MentorshipRepository) list(ctx context.Context, query, arg string) ([]mentorship.Mentorship, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list mentorships: %w", err)
	}
	defer rows.Close()

	out := make([]mentorship.Mentorship, 0)
	for rows.Next() {
		m, err := scanMentorship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func scanMentorship(row database.Row) (*mentorship.Mentorship, error) {
	var (
		m      mentorship.Mentorship
		status string
	)
	err := row.Scan(
		&m.ID, &m.MentorID, &m.MenteeID, &status, &m.Specialties, &m.Bio, &m.YearsExperience,
		&m.AvailableSlots, &m.Sessions, &m.Messages, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, mentorship.ErrNotFound
		}
		return nil, fmt.Errorf("scan mentorship: %w", err)
	}
	m.Status = mentorship.Status(status)
	normalizeMentorship(&m)
	return &m, nil
}

func normalizeMentorship(m *mentorship.Mentorship) {
	if m.Specialties == nil {
		m.Specialties = []string{}
	}
	if m.Sessions == nil {
		m.Sessions = []mentorship.Session{}
	}
	if m.Messages == nil {
		m.Messages = []mentorship.Message{}
	}
}
