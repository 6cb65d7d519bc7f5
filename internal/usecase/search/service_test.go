package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	"cinda/internal/infrastructure/persistence/memory"
)

func newSearchFixture(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Courses.Create(ctx, &course.Course{
		ID: "c1", Title: "Cinematography Fundamentals", Category: course.CategoryCinematography,
		Level: course.LevelBeginner, Description: "camera and lenses", CreatedAt: now,
	}))
	require.NoError(t, store.Courses.Create(ctx, &course.Course{
		ID: "c2", Title: "Editing Masterclass", Category: course.CategoryEditing,
		Level: course.LevelAdvanced, Description: "cutting", CreatedAt: now,
	}))
	require.NoError(t, store.Opportunities.Create(ctx, &opportunity.Opportunity{
		ID: "o1", Type: opportunity.TypeGrant, Title: "Documentary Grant", Company: "Fund",
		Deadline: now.Add(72 * time.Hour), IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, store.Opportunities.Create(ctx, &opportunity.Opportunity{
		ID: "o2", Type: opportunity.TypeGrant, Title: "Expired Documentary Grant", Company: "Fund",
		Deadline: now.Add(-time.Hour), IsActive: true, CreatedAt: now,
	}))
	require.NoError(t, store.Users.Create(ctx, &user.User{
		ID: "u1", Name: "Documentary Maker", Email: "doc@example.com", PasswordHash: "hash",
		Role: user.RoleFilmmaker, CreatedAt: now,
	}))

	return NewService(store.Courses, store.Opportunities, store.Users), store
}

func TestSearchRequiresQuery(t *testing.T) {
	svc, _ := newSearchFixture(t)
	_, err := svc.Search(context.Background(), Params{Query: "   "})
	assert.ErrorIs(t, err, ErrQueryRequired)
}

func TestSearchRejectsUnknownCategory(t *testing.T) {
	svc, _ := newSearchFixture(t)
	_, err := svc.Search(context.Background(), Params{Query: "film", Category: "projects"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestSearchExpandsSynonyms(t *testing.T) {
	svc, _ := newSearchFixture(t)

	res, err := svc.Search(context.Background(), Params{Query: "DoP", Category: "courses"})
	require.NoError(t, err)
	require.Len(t, res.Courses, 1)
	assert.Equal(t, "c1", res.Courses[0].ID)
	assert.Nil(t, res.Opportunities)
	assert.Nil(t, res.Users)
	assert.Equal(t, 1, res.TotalResults)
}

func TestSearchAllSkipsExpiredAndHidesPasswords(t *testing.T) {
	svc, _ := newSearchFixture(t)

	res, err := svc.Search(context.Background(), Params{Query: "doc"})
	require.NoError(t, err)
	assert.Equal(t, CategoryAll, res.Category)

	require.Len(t, res.Opportunities, 1)
	assert.Equal(t, "o1", res.Opportunities[0].ID)

	require.Len(t, res.Users, 1)
	assert.Empty(t, res.Users[0].PasswordHash)
	assert.Equal(t, 2, res.TotalResults)
	assert.False(t, res.Pagination.HasPrev)
}

func TestSearchPaginatesSingleCategory(t *testing.T) {
	svc, store := newSearchFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Courses.Create(ctx, &course.Course{
			ID: fmt.Sprintf("s%d", i), Title: fmt.Sprintf("Sound Design %d", i),
			Category: course.CategorySoundDesign, Level: course.LevelBeginner, CreatedAt: time.Now(),
		}))
	}

	first, err := svc.Search(ctx, Params{Query: "sound design", Category: "courses", Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.Len(t, first.Courses, 2)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)

	last, err := svc.Search(ctx, Params{Query: "sound design", Category: "courses", Limit: 2, Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Courses, 1)
	assert.False(t, last.Pagination.HasNext)
	assert.True(t, last.Pagination.HasPrev)

	beyond, err := svc.Search(ctx, Params{Query: "sound design", Category: "courses", Limit: 2, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond.Courses)
}
