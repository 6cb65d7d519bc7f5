package user

import (
	"context"
	"errors"
	"strings"

	"cinda/internal/domain/user"
)

var (
	ErrNoFields     = errors.New("no valid fields to update")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type UpdateProfileInput struct {
	Name           *string
	Bio            *string
	Location       *string
	Website        *string
	Specialization *[]string
}

// Profile is the owner's view of an account.
type Profile struct {
	User                user.User
	EnrolledCourseCount int
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, user.ErrNotFound
		}
		return Profile{}, errors.Join(ErrInternal, err)
	}
	return toProfile(*usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (Profile, error) {
	upd := user.ProfileUpdate{
		Name:     in.Name,
		Bio:      in.Bio,
		Location: in.Location,
		Website:  in.Website,
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return Profile{}, ErrInvalidInput
	}
	if in.Specialization != nil {
		upd.SetSpecialization = true
		upd.Specialization = cleanList(*in.Specialization)
	}
	if upd.Empty() {
		return Profile{}, ErrNoFields
	}

	usr, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, user.ErrNotFound
		}
		return Profile{}, errors.Join(ErrInternal, err)
	}
	return toProfile(*usr), nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toProfile(u user.User) Profile {
	u.PasswordHash = ""
	if u.Specialization == nil {
		u.Specialization = []string{}
	}
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	return Profile{User: u, EnrolledCourseCount: len(u.EnrolledCourses)}
}
