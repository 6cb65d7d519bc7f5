package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cinda/internal/domain/user"
)

const MinPasswordLength = 6

var (
	ErrEmailAlreadyRegistered = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
	// Role, when set and different from the stored one, replaces it.
	Role string
}

type SocialLoginInput struct {
	Email      string
	Name       string
	Provider   string
	ProviderID string
	Role       string
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost used for new passwords and the dummy comparison.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	users user.Repository
	cost  int
	now   func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(users user.Repository, opts ...Option) *Service {
	s := &Service{users: users, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	name := strings.TrimSpace(in.Name)
	email := user.NormalizeEmail(in.Email)
	role, ok := user.ParseRole(in.Role)
	if name == "" || email == "" || !ok || len(in.Password) < MinPasswordLength {
		return user.User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := &user.User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		PasswordHash:    string(hash),
		Role:            role,
		Specialization:  []string{},
		EnrolledCourses: []string{},
		CreatedAt:       s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}
	return sanitizeUser(*u), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.compareDummy(in.Password)
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, errors.Join(ErrInternal, err)
	}

	if !u.HasPassword() {
		s.compareDummy(in.Password)
		return user.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	if err := s.recordLogin(ctx, u, in.Role); err != nil {
		return user.User{}, err
	}
	return sanitizeUser(*u), nil
}

// SocialLogin finds the account for the provider-asserted email or creates a
// verified, password-less one.
func (s *Service) SocialLogin(ctx context.Context, in SocialLoginInput) (user.User, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" {
		return user.User{}, ErrInvalidInput
	}
	if _, ok := user.ParseRole(in.Role); !ok {
		return user.User{}, ErrInvalidInput
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, user.ErrNotFound):
		created, err := s.createSocial(ctx, email, in)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, errors.Join(ErrInternal, err)
		}
		// Lost a creation race; continue with the winner's account.
		if u, err = s.users.GetByEmail(ctx, email); err != nil {
			return user.User{}, errors.Join(ErrInternal, err)
		}
	default:
		return user.User{}, errors.Join(ErrInternal, err)
	}

	if err := s.recordLogin(ctx, u, in.Role); err != nil {
		return user.User{}, err
	}
	return sanitizeUser(*u), nil
}

func (s *Service) createSocial(ctx context.Context, email string, in SocialLoginInput) (user.User, error) {
	role, _ := user.ParseRole(in.Role)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	u := &user.User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           email,
		Role:            role,
		Specialization:  []string{},
		EnrolledCourses: []string{},
		SocialLogin:     user.SocialLogin{Provider: strings.TrimSpace(in.Provider), ProviderID: strings.TrimSpace(in.ProviderID)},
		IsVerified:      true,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, err
	}
	return sanitizeUser(*u), nil
}

func (s *Service) recordLogin(ctx context.Context, u *user.User, roleIn string) error {
	upd := user.LoginUpdate{At: s.now().UTC()}
	if strings.TrimSpace(roleIn) != "" {
		if role, ok := user.ParseRole(roleIn); ok && role != u.Role {
			upd.Role = &role
		}
	}
	if err := s.users.RecordLogin(ctx, u.ID, upd); err != nil {
		return errors.Join(ErrInternal, err)
	}
	u.LastLogin = &upd.At
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	return nil
}

// compareDummy spends the same bcrypt work as a real comparison.
func (s *Service) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cinda-placeholder-secret"), s.cost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	if u.Specialization == nil {
		u.Specialization = []string{}
	}
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	return u
}
