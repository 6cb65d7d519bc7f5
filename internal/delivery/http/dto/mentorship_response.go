package dto

import (
	"cinda/internal/domain/mentorship"
	"cinda/internal/domain/user"
)

// MentorshipParticipant is the public contact card of the other participant.
type MentorshipParticipant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// MentorshipListItem keeps the mentor and mentee id fields and adds the
// counterpart's card next to them.
type MentorshipListItem struct {
	mentorship.Mentorship
	MentorInfo *MentorshipParticipant `json:"mentorInfo,omitempty"`
	MenteeInfo *MentorshipParticipant `json:"menteeInfo,omitempty"`
}

type MentorshipListResponse struct {
	Mentorships []MentorshipListItem `json:"mentorships"`
	Total       int                  `json:"total"`
}

func NewMentorshipListItem(m mentorship.Mentorship, mentor, mentee *user.User) MentorshipListItem {
	return MentorshipListItem{
		Mentorship: m,
		MentorInfo: participantFrom(mentor),
		MenteeInfo: participantFrom(mentee),
	}
}

func participantFrom(u *user.User) *MentorshipParticipant {
	if u == nil {
		return nil
	}
	return &MentorshipParticipant{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
