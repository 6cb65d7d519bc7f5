package usecase

import (
	"context"

	"cinda/internal/domain/user"
	ucuser "cinda/internal/usecase/user"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (ucuser.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in ucuser.UpdateProfileInput) (ucuser.Profile, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository) *User {
	return &User{svc: ucuser.NewService(users)}
}

func (u *User) GetProfile(ctx context.Context, userID string) (ucuser.Profile, error) {
	return u.svc.GetProfile(ctx, userID)
}

func (u *User) UpdateProfile(ctx context.Context, userID string, in ucuser.UpdateProfileInput) (ucuser.Profile, error) {
	return u.svc.UpdateProfile(ctx, userID, in)
}
