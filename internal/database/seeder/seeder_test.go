package seeder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	"cinda/internal/infrastructure/persistence/memory"
)

func TestRunnerSeedsEmptyStoreOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	target := Target{Courses: store.Courses, Opportunities: store.Opportunities}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	r := Runner{Seeders: Defaults(now)}
	require.NoError(t, r.Run(ctx, target))

	courses, err := store.Courses.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoCourses())), courses)

	opps, err := store.Opportunities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoOpportunities())), opps)

	require.NoError(t, r.Run(ctx, target))
	again, err := store.Courses.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, courses, again)
}

func TestSeededCatalogIsValid(t *testing.T) {
	for _, c := range demoCourses() {
		assert.True(t, c.Category.Valid(), c.Title)
		assert.True(t, c.Level.Valid(), c.Title)
	}
	for _, o := range demoOpportunities() {
		assert.True(t, o.Type.Valid(), o.Title)
		assert.Positive(t, o.opensFor)
	}
}

func TestSeededOpportunitiesAreOpen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()

	n, err := OpportunitiesSeeder{Now: now}.Run(ctx, Target{Courses: store.Courses, Opportunities: store.Opportunities})
	require.NoError(t, err)
	require.Equal(t, len(demoOpportunities()), n)

	list, err := store.Opportunities.List(ctx, opportunity.Filter{})
	require.NoError(t, err)
	require.Len(t, list, n)
	for _, o := range list {
		assert.True(t, o.IsActive)
		assert.True(t, o.Deadline.After(now))
	}

	byCat, err := store.Courses.List(ctx, course.Filter{})
	require.NoError(t, err)
	assert.Empty(t, byCat)
}

func TestRunnerRejectsIncompleteTarget(t *testing.T) {
	err := Runner{Seeders: Defaults(time.Now())}.Run(context.Background(), Target{})
	assert.Error(t, err)
}
