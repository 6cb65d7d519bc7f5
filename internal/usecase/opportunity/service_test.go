package opportunity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	"cinda/internal/infrastructure/persistence/memory"
)

func seedOpportunity(t *testing.T, repo *memory.OpportunityRepository, id string, typ opportunity.Type, active bool) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &opportunity.Opportunity{
		ID:        id,
		Type:      typ,
		Title:     "Opportunity " + id,
		Company:   "Studio",
		Deadline:  time.Now().Add(48 * time.Hour),
		IsActive:  active,
		CreatedAt: time.Now(),
	}))
}

func TestListParamsFilter(t *testing.T) {
	f := ListParams{Type: "grant", Search: " doc "}.Filter()
	assert.Equal(t, opportunity.TypeGrant, f.Type)
	assert.Equal(t, "doc", f.Search)

	assert.Empty(t, ListParams{Type: "All"}.Filter().Type)
}

func TestListOnlyActive(t *testing.T) {
	repo := memory.NewOpportunityRepository()
	seedOpportunity(t, repo, "o1", opportunity.TypeGrant, true)
	seedOpportunity(t, repo, "o2", opportunity.TypeJob, true)
	seedOpportunity(t, repo, "o3", opportunity.TypeGrant, false)
	svc := NewService(repo, nil, nil)

	list, err := svc.List(context.Background(), ListParams{Type: "GRANT"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "o1", list[0].ID)
}

func TestApplyTwice(t *testing.T) {
	repo := memory.NewOpportunityRepository()
	seedOpportunity(t, repo, "o1", opportunity.TypeGrant, true)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Apply(ctx, "o1", "u1", " please "))
	assert.ErrorIs(t, svc.Apply(ctx, "o1", "u1", "again"), opportunity.ErrAlreadyApplied)
	assert.ErrorIs(t, svc.Apply(ctx, "missing", "u1", ""), opportunity.ErrNotFound)

	o, err := svc.Get(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, o.Applications, 1)
	assert.Equal(t, opportunity.StatusPending, o.Applications[0].Status)
	assert.Equal(t, "please", o.Applications[0].CoverLetter)
}

func TestConcurrentApplyAdmitsOne(t *testing.T) {
	repo := memory.NewOpportunityRepository()
	seedOpportunity(t, repo, "o1", opportunity.TypeJob, true)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Apply(ctx, "o1", "u1", "")
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, opportunity.ErrAlreadyApplied)
	}
	assert.Equal(t, 1, ok)

	o, err := svc.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, o.Applications, 1)
}

func TestReview(t *testing.T) {
	repo := memory.NewOpportunityRepository()
	seedOpportunity(t, repo, "o1", opportunity.TypeGrant, true)
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	require.NoError(t, svc.Apply(ctx, "o1", "u1", ""))

	_, err := svc.Review(ctx, "o1", user.RoleFilmmaker, "u1", "accepted")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Review(ctx, "o1", user.RoleSponsor, "u1", "maybe")
	assert.ErrorIs(t, err, opportunity.ErrUnknownStatus)

	_, err = svc.Review(ctx, "o1", user.RoleSponsor, "u2", "accepted")
	assert.ErrorIs(t, err, opportunity.ErrApplicationNotFound)

	app, err := svc.Review(ctx, "o1", user.RoleSponsor, "u1", "Accepted")
	require.NoError(t, err)
	assert.Equal(t, opportunity.StatusAccepted, app.Status)

	_, err = svc.Review(ctx, "o1", user.RoleSponsor, "u1", "rejected")
	var terr *opportunity.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, opportunity.StatusAccepted, terr.From)
	assert.Equal(t, opportunity.StatusRejected, terr.To)
}
