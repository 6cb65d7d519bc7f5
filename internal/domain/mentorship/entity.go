package mentorship

import (
	"errors"
	"strings"
	"time"
)

const DefaultAvailableSlots = 5

var (
	ErrNotFound                = errors.New("mentorship not found")
	ErrUnknownStatus           = errors.New("unknown mentorship status")
	ErrNotParticipant          = errors.New("not a participant of this mentorship")
	ErrNotMentor               = errors.New("only the mentor can do this")
	ErrSelfMentorship          = errors.New("mentor and mentee must differ")
	ErrSessionsClosed          = errors.New("mentorship no longer accepts sessions")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionAlreadyCompleted = errors.New("session already completed")
	ErrNotActive               = errors.New("mentorship is not active")
	ErrEmptyMessage            = errors.New("message content is empty")
)

type Session struct {
	Title         string    `json:"title" bson:"title"`
	ScheduledDate time.Time `json:"scheduledDate" bson:"scheduledDate"`
	Duration      int       `json:"duration" bson:"duration"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Completed     bool      `json:"completed" bson:"completed"`
	Feedback      string    `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

type Message struct {
	SenderID  string    `json:"sender" bson:"sender"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type Mentorship struct {
	ID              string    `json:"id" bson:"_id"`
	MentorID        string    `json:"mentor" bson:"mentor"`
	MenteeID        string    `json:"mentee" bson:"mentee"`
	Status          Status    `json:"status" bson:"status"`
	Specialties     []string  `json:"specialties" bson:"specialties"`
	Bio             string    `json:"bio,omitempty" bson:"bio,omitempty"`
	YearsExperience int       `json:"yearsExperience" bson:"yearsExperience"`
	AvailableSlots  int       `json:"availableSlots" bson:"availableSlots"`
	Sessions        []Session `json:"sessions" bson:"sessions"`
	Messages        []Message `json:"messages" bson:"messages"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

func New(id, mentorID, menteeID string, now time.Time) (*Mentorship, error) {
	if mentorID == menteeID {
		return nil, ErrSelfMentorship
	}
	return &Mentorship{
		ID:             id,
		MentorID:       mentorID,
		MenteeID:       menteeID,
		Status:         StatusPending,
		Specialties:    []string{},
		AvailableSlots: DefaultAvailableSlots,
		Sessions:       []Session{},
		Messages:       []Message{},
		CreatedAt:      now.UTC(),
	}, nil
}

func (m *Mentorship) IsParticipant(userID string) bool {
	return userID != "" && (userID == m.MentorID || userID == m.MenteeID)
}

// SetStatus applies the transition table to the current status.
func (m *Mentorship) SetStatus(to Status) error {
	next, err := Transition(m.Status, to)
	if err != nil {
		return err
	}
	m.Status = next
	return nil
}

// AddSession appends s as not yet completed. The status is left unchanged.
func (m *Mentorship) AddSession(s Session) error {
	if !m.Status.AcceptsSessions() {
		return ErrSessionsClosed
	}
	s.Completed = false
	s.Feedback = ""
	m.Sessions = append(m.Sessions, s)
	return nil
}

func (m *Mentorship) CompleteSession(index int, feedback string) error {
	if m.Status != StatusActive {
		return ErrNotActive
	}
	if index < 0 || index >= len(m.Sessions) {
		return ErrSessionNotFound
	}
	if m.Sessions[index].Completed {
		return ErrSessionAlreadyCompleted
	}
	m.Sessions[index].Completed = true
	m.Sessions[index].Feedback = feedback
	return nil
}

func (m *Mentorship) AddMessage(senderID, content string, now time.Time) (Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}
	msg := Message{SenderID: senderID, Content: content, Timestamp: now.UTC()}
	m.Messages = append(m.Messages, msg)
	return msg, nil
}
