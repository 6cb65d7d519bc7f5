package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cinda/internal/domain/user"
	"cinda/internal/infrastructure/persistence/memory"
)

func newTestService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	repo := memory.NewUserRepository()
	return NewService(repo, WithHashCost(bcrypt.MinCost)), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: " Ana ", Email: " Ana@Example.com ", Password: "secret1", Role: "mentor"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, user.RoleMentor, u.Role)
	assert.Empty(t, u.PasswordHash)

	stored, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegisterDefaultsToFilmmaker(t *testing.T) {
	svc, _ := newTestService(t)
	u, err := svc.Register(context.Background(), RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleFilmmaker, u.Role)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, in := range []RegisterInput{
		{Name: "", Email: "a@example.com", Password: "secret1"},
		{Name: "A", Email: "", Password: "secret1"},
		{Name: "A", Email: "a@example.com", Password: "short"},
		{Name: "A", Email: "a@example.com", Password: "secret1", Role: "producer"},
	} {
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "DUP@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestConcurrentRegisterCreatesOneUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, RegisterInput{Name: "Race", Email: "race@example.com", Password: "secret1"})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrEmailAlreadyRegistered):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)
}

func TestLogin(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	repo := memory.NewUserRepository()
	svc := NewService(repo, WithHashCost(bcrypt.MinCost), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, LoginInput{Email: "A@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
	assert.Equal(t, fixed, *u.LastLogin)
	assert.Equal(t, user.RoleFilmmaker, u.Role)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, fixed, stored.LastLogin.UTC())
}

func TestLoginCorrectsRole(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, LoginInput{Email: "a@example.com", Password: "secret1", Role: "sponsor"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleSponsor, u.Role)

	stored, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleSponsor, stored.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.SocialLogin(ctx, SocialLoginInput{Email: "social@example.com", Name: "S", Provider: "google"})
	require.NoError(t, err)

	for _, in := range []LoginInput{
		{Email: "a@example.com", Password: "wrong-pass"},
		{Email: "missing@example.com", Password: "secret1"},
		{Email: "social@example.com", Password: "anything"},
		{Email: "a@example.com", Password: ""},
	} {
		_, err := svc.Login(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "%+v", in)
	}
}

func TestSocialLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SocialLogin(ctx, SocialLoginInput{Email: "New@Example.com", Provider: "google", ProviderID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, "new", first.Name)
	assert.True(t, first.IsVerified)
	assert.Equal(t, "google", first.SocialLogin.Provider)
	assert.False(t, first.HasPassword())

	again, err := svc.SocialLogin(ctx, SocialLoginInput{Email: "new@example.com", Provider: "google", ProviderID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.NotNil(t, again.LastLogin)

	_, err = svc.SocialLogin(ctx, SocialLoginInput{Email: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.SocialLogin(ctx, SocialLoginInput{Email: "x@example.com", Role: "producer"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
