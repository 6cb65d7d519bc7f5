package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/database/migration"
	"cinda/internal/database/migrations"
	dbpostgres "cinda/internal/database/postgres"
	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
)

// openTestPool connects to CINDA_TEST_POSTGRES_URL and applies migrations.
func openTestPool(t *testing.T) *dbpostgres.Pool {
	t.Helper()
	dsn := os.Getenv("CINDA_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("CINDA_TEST_POSTGRES_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := dbpostgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })

	require.NoError(t, migration.Runner{FS: migrations.FS}.Run(ctx, pool.SQLDB()))
	return pool
}

func TestPostgresConcurrentEnrollInsertsOnce(t *testing.T) {
	pool := openTestPool(t)
	repo := NewCourseRepository(pool, 5*time.Second)
	ctx := context.Background()

	c := &course.Course{
		ID:        uuid.NewString(),
		Title:     "Color Grading Basics",
		Category:  course.CategoryColorGrading,
		Level:     course.LevelBeginner,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, c))

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.AddEnrollment(ctx, c.ID, course.NewEnrollment("u1", time.Now()))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, course.ErrAlreadyEnrolled)
	}
	assert.Equal(t, 1, ok)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, got.EnrolledStudents, 1)
	assert.Equal(t, "u1", got.EnrolledStudents[0].UserID)

	_, err = repo.AddEnrollment(ctx, uuid.NewString(), course.NewEnrollment("u1", time.Now()))
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestPostgresApplicationStatusCompareAndSet(t *testing.T) {
	pool := openTestPool(t)
	repo := NewOpportunityRepository(pool, 5*time.Second)
	ctx := context.Background()

	o := &opportunity.Opportunity{
		ID:        uuid.NewString(),
		Type:      opportunity.TypeGrant,
		Title:     "Short Film Grant",
		Company:   "CI-NDA",
		Deadline:  time.Now().Add(24 * time.Hour).UTC(),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, o))

	app := opportunity.Application{UserID: "u1", Status: opportunity.StatusPending, AppliedAt: time.Now().UTC()}
	require.NoError(t, repo.AddApplication(ctx, o.ID, app))
	assert.ErrorIs(t, repo.AddApplication(ctx, o.ID, app), opportunity.ErrAlreadyApplied)

	require.NoError(t, repo.SetApplicationStatus(ctx, o.ID, "u1", opportunity.StatusPending, opportunity.StatusAccepted))

	err := repo.SetApplicationStatus(ctx, o.ID, "u1", opportunity.StatusPending, opportunity.StatusRejected)
	var te *opportunity.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, opportunity.StatusAccepted, te.From)

	err = repo.SetApplicationStatus(ctx, o.ID, "nobody", opportunity.StatusPending, opportunity.StatusAccepted)
	assert.ErrorIs(t, err, opportunity.ErrApplicationNotFound)
}
