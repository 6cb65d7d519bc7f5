package dto

import (
	"time"

	"cinda/internal/domain/user"
)

// UserSummary is the account view returned by the auth endpoints.
type UserSummary struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	UserType user.Role  `json:"userType"`
	Avatar   string     `json:"avatar,omitempty"`
	Stats    user.Stats `json:"stats"`
}

type ProfileStats struct {
	Followers       int `json:"followers"`
	Following       int `json:"following"`
	Projects        int `json:"projects"`
	Awards          int `json:"awards"`
	EnrolledCourses int `json:"enrolledCourses"`
}

type UserProfileResponse struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	UserType        user.Role    `json:"userType"`
	Bio             string       `json:"bio"`
	Location        string       `json:"location"`
	Website         string       `json:"website"`
	Avatar          string       `json:"avatar"`
	Specialization  []string     `json:"specialization"`
	IsVerified      bool         `json:"isVerified"`
	EnrolledCourses []string     `json:"enrolledCourses"`
	Stats           ProfileStats `json:"stats"`
	CreatedAt       time.Time    `json:"createdAt"`
	LastLogin       *time.Time   `json:"lastLogin"`
}

// PublicUser omits contact details; it is what search exposes.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserType  user.Role `json:"userType"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Avatar    string    `json:"avatar"`
	Followers int       `json:"followers"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserSummary(u user.User) UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		UserType: u.Role,
		Avatar:   u.Avatar,
		Stats:    u.Stats,
	}
}

func NewUserProfileResponse(u user.User, enrolledCount int) UserProfileResponse {
	spec := u.Specialization
	if spec == nil {
		spec = []string{}
	}
	enrolled := u.EnrolledCourses
	if enrolled == nil {
		enrolled = []string{}
	}
	return UserProfileResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		UserType:        u.Role,
		Bio:             u.Bio,
		Location:        u.Location,
		Website:         u.Website,
		Avatar:          u.Avatar,
		Specialization:  spec,
		IsVerified:      u.IsVerified,
		EnrolledCourses: enrolled,
		Stats: ProfileStats{
			Followers:       u.Stats.Followers,
			Following:       u.Stats.Following,
			Projects:        u.Stats.Projects,
			Awards:          u.Stats.Awards,
			EnrolledCourses: enrolledCount,
		},
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func NewPublicUser(u user.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		UserType:  u.Role,
		Bio:       u.Bio,
		Location:  u.Location,
		Avatar:    u.Avatar,
		Followers: u.Stats.Followers,
		CreatedAt: u.CreatedAt,
	}
}
