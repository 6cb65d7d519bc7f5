package opportunity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationTransitions(t *testing.T) {
	assert.NoError(t, CanTransition(StatusPending, StatusAccepted))
	assert.NoError(t, CanTransition(StatusPending, StatusRejected))

	for _, tc := range [][2]ApplicationStatus{
		{StatusAccepted, StatusRejected},
		{StatusRejected, StatusAccepted},
		{StatusAccepted, StatusPending},
		{StatusPending, StatusPending},
	} {
		err := CanTransition(tc[0], tc[1])
		var terr *TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, tc[0], terr.From)
		assert.Equal(t, tc[1], terr.To)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
	}
}

func TestParseApplicationStatus(t *testing.T) {
	st, err := ParseApplicationStatus("accepted")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, st)

	_, err = ParseApplicationStatus("maybe")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestApplyAndReview(t *testing.T) {
	o := &Opportunity{ID: "o1", IsActive: true}
	now := time.Now()

	require.NoError(t, o.Apply(NewApplication("u1", "hi", now)))
	assert.ErrorIs(t, o.Apply(NewApplication("u1", "again", now)), ErrAlreadyApplied)
	assert.Len(t, o.Applications, 1)
	assert.Equal(t, StatusPending, o.Applications[0].Status)

	assert.ErrorIs(t, o.Review("u2", StatusAccepted), ErrApplicationNotFound)
	require.NoError(t, o.Review("u1", StatusAccepted))
	assert.ErrorIs(t, o.Review("u1", StatusRejected), ErrInvalidTransition)
}

func TestFilterMatches(t *testing.T) {
	o := Opportunity{Type: TypeGrant, Title: "Short Film Grant", Company: "Fund", IsActive: true}

	assert.True(t, Filter{}.Matches(o))
	assert.True(t, Filter{Type: TypeGrant, Search: "film"}.Matches(o))
	assert.True(t, Filter{Search: "fund"}.Matches(o))
	assert.False(t, Filter{Type: TypeJob}.Matches(o))

	o.IsActive = false
	assert.False(t, Filter{}.Matches(o))
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType(" grant ")
	assert.True(t, ok)
	assert.Equal(t, TypeGrant, typ)

	_, ok = ParseType("gig")
	assert.False(t, ok)
}
