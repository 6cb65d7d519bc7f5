package user

import (
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleFilmmaker Role = "filmmaker"
	RoleMentor    Role = "mentor"
	RoleSponsor   Role = "sponsor"
)

var Roles = []Role{RoleFilmmaker, RoleMentor, RoleSponsor}

func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// RoleNames lists the accepted userType values in display order.
func RoleNames() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}

// ParseRole returns the role named by s, or RoleFilmmaker when s is empty.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleFilmmaker, true
	}
	r := Role(s)
	return r, r.Valid()
}

type SocialLogin struct {
	Provider   string `json:"provider,omitempty" bson:"provider,omitempty"`
	ProviderID string `json:"providerId,omitempty" bson:"providerId,omitempty"`
}

type Stats struct {
	Followers int `json:"followers" bson:"followers"`
	Following int `json:"following" bson:"following"`
	Projects  int `json:"projects" bson:"projects"`
	Awards    int `json:"awards" bson:"awards"`
}

type User struct {
	ID              string      `json:"id" bson:"_id"`
	Name            string      `json:"name" bson:"name"`
	Email           string      `json:"email" bson:"email"`
	PasswordHash    string      `json:"-" bson:"password,omitempty"`
	Role            Role        `json:"userType" bson:"userType"`
	Avatar          string      `json:"avatar" bson:"avatar,omitempty"`
	Bio             string      `json:"bio" bson:"bio,omitempty"`
	Location        string      `json:"location" bson:"location,omitempty"`
	Website         string      `json:"website" bson:"website,omitempty"`
	Specialization  []string    `json:"specialization" bson:"specialization"`
	SocialLogin     SocialLogin `json:"socialLogin" bson:"socialLogin"`
	Stats           Stats       `json:"stats" bson:"stats"`
	EnrolledCourses []string    `json:"enrolledCourses" bson:"enrolledCourses"`
	IsVerified      bool        `json:"isVerified" bson:"isVerified"`
	LastLogin       *time.Time  `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
}

// HasPassword reports whether the account can authenticate with a local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

func (u User) IsEnrolledIn(courseID string) bool {
	for _, id := range u.EnrolledCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the profile fields a user may change. Nil fields are left untouched.
type ProfileUpdate struct {
	Name              *string
	Bio               *string
	Location          *string
	Website           *string
	Specialization    []string
	SetSpecialization bool
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Bio == nil && p.Location == nil && p.Website == nil && !p.SetSpecialization
}

func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.SetSpecialization {
		u.Specialization = append([]string(nil), p.Specialization...)
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
