package mentorship

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinda/internal/domain/mentorship"
	"cinda/internal/domain/user"
	"cinda/internal/pkg/keyedqueue"
)

var (
	ErrMentorNotFound = errors.New("mentor not found")
	ErrNotAMentor     = errors.New("requested user is not a mentor")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal error")
)

// Notifier pushes newly appended messages to connected participants.
type Notifier interface {
	MessageSent(mentorshipID string, msg mentorship.Message)
}

type CreateInput struct {
	MentorID        string
	Specialties     []string
	Bio             string
	YearsExperience int
}

// Listing is a mentorship plus the account on the other side of it. Only
// the counterpart of the listing actor is filled; it is nil when that
// account no longer exists.
type Listing struct {
	Mentorship mentorship.Mentorship
	Mentor     *user.User
	Mentee     *user.User
}

type SessionInput struct {
	Title         string
	ScheduledDate time.Time
	Duration      int
	Notes         string
}

type Service struct {
	mentorships mentorship.Repository
	users       user.Repository
	queue       *keyedqueue.Queue
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(mentorships mentorship.Repository, users user.Repository, queue *keyedqueue.Queue, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		mentorships: mentorships,
		users:       users,
		queue:       queue,
		notifier:    notifier,
		logger:      logger.With("component", "mentorship"),
		now:         time.Now,
	}
}

// Create opens a pending mentorship between menteeID and the requested mentor.
func (s *Service) Create(ctx context.Context, menteeID string, in CreateInput) (*mentorship.Mentorship, error) {
	mentorID := strings.TrimSpace(in.MentorID)
	if mentorID == "" || in.YearsExperience < 0 {
		return nil, ErrInvalidInput
	}

	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrMentorNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	if mentor.Role != user.RoleMentor {
		return nil, ErrNotAMentor
	}

	m, err := mentorship.New(uuid.NewString(), mentorID, menteeID, s.now())
	if err != nil {
		return nil, err
	}
	if in.Specialties != nil {
		m.Specialties = append([]string(nil), in.Specialties...)
	}
	m.Bio = strings.TrimSpace(in.Bio)
	m.YearsExperience = in.YearsExperience

	if err := s.mentorships.Create(ctx, m); err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return m, nil
}

// List returns the actor's mentorships as mentor when the actor is a mentor,
// otherwise as mentee.
func (s *Service) List(ctx context.Context, actorID string, role user.Role) ([]Listing, error) {
	asMentor := role == user.RoleMentor

	var (
		list []mentorship.Mentorship
		err  error
	)
	if asMentor {
		list, err = s.mentorships.ListByMentor(ctx, actorID)
	} else {
		list, err = s.mentorships.ListByMentee(ctx, actorID)
	}
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}

	seen := make(map[string]*user.User)
	out := make([]Listing, 0, len(list))
	for _, m := range list {
		otherID := m.MentorID
		if asMentor {
			otherID = m.MenteeID
		}
		other, ok := seen[otherID]
		if !ok {
			other, err = s.users.GetByID(ctx, otherID)
			if err != nil && !errors.Is(err, user.ErrNotFound) {
				return nil, errors.Join(ErrInternal, err)
			}
			seen[otherID] = other
		}

		l := Listing{Mentorship: m}
		if asMentor {
			l.Mentee = other
		} else {
			l.Mentor = other
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, actorID string) (*mentorship.Mentorship, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsParticipant(actorID) {
		return nil, mentorship.ErrNotParticipant
	}
	return m, nil
}

// UpdateStatus moves the mentorship along its transition table. Either
// participant may cancel or complete; only the mentor accepts a request.
func (s *Service) UpdateStatus(ctx context.Context, id, actorID, status string) (*mentorship.Mentorship, error) {
	to, err := mentorship.ParseStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, actorID, func(m *mentorship.Mentorship) error {
		// Accepting a request is the mentor's call.
		if m.Status == mentorship.StatusPending && to == mentorship.StatusActive && m.MentorID != actorID {
			return mentorship.ErrNotMentor
		}
		return m.SetStatus(to)
	})
}

func (s *Service) AddSession(ctx context.Context, id, actorID string, in SessionInput) (*mentorship.Mentorship, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.ScheduledDate.IsZero() || in.Duration < 0 {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, id, actorID, func(m *mentorship.Mentorship) error {
		return m.AddSession(mentorship.Session{
			Title:         title,
			ScheduledDate: in.ScheduledDate.UTC(),
			Duration:      in.Duration,
			Notes:         strings.TrimSpace(in.Notes),
		})
	})
}

// CompleteSession marks the session at index done. Only the mentor may do this.
func (s *Service) CompleteSession(ctx context.Context, id, actorID string, index int, feedback string) (*mentorship.Mentorship, error) {
	return s.mutate(ctx, id, actorID, func(m *mentorship.Mentorship) error {
		if m.MentorID != actorID {
			return mentorship.ErrNotMentor
		}
		return m.CompleteSession(index, strings.TrimSpace(feedback))
	})
}

// SendMessage appends a message and pushes it to the mentorship room once stored.
func (s *Service) SendMessage(ctx context.Context, id, actorID, content string) (mentorship.Message, error) {
	var msg mentorship.Message
	_, err := s.mutate(ctx, id, actorID, func(m *mentorship.Mentorship) error {
		var err error
		msg, err = m.AddMessage(actorID, content, s.now())
		return err
	})
	if err != nil {
		return mentorship.Message{}, err
	}
	if s.notifier != nil {
		s.notifier.MessageSent(id, msg)
	}
	return msg, nil
}

// mutate runs load, participant check, fn and save on the mentorship's queue
// worker, so concurrent changes to one mentorship never interleave.
func (s *Service) mutate(ctx context.Context, id, actorID string, fn func(*mentorship.Mentorship) error) (*mentorship.Mentorship, error) {
	var out *mentorship.Mentorship
	err := s.queue.Do(ctx, id, func(ctx context.Context) error {
		m, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if !m.IsParticipant(actorID) {
			return mentorship.ErrNotParticipant
		}
		if err := fn(m); err != nil {
			return err
		}
		if err := s.mentorships.Save(ctx, m); err != nil {
			return errors.Join(ErrInternal, err)
		}
		out = m
		return nil
	})
	if err != nil {
		if errors.Is(err, keyedqueue.ErrClosed) {
			s.logger.Warn("mutation rejected, queue closed", "mentorship_id", id)
		}
		return nil, err
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	m, err := s.mentorships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mentorship.ErrNotFound) {
			return nil, mentorship.ErrNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return m, nil
}
