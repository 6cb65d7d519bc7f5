package mentorship

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusPending, false},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusPending, false},
		{StatusActive, StatusActive, false},
	}
	for _, tc := range cases {
		got, err := Transition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, got)
			continue
		}
		var terr *TransitionError
		require.ErrorAs(t, err, &terr, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, terr.From)
		assert.Equal(t, tc.to, terr.To)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
		assert.Equal(t, tc.from, got)
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("active")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestNewRejectsSelfMentorship(t *testing.T) {
	_, err := New("m1", "u1", "u1", time.Now())
	assert.ErrorIs(t, err, ErrSelfMentorship)

	m, err := New("m1", "mentor", "mentee", time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, DefaultAvailableSlots, m.AvailableSlots)
	assert.True(t, m.IsParticipant("mentor"))
	assert.True(t, m.IsParticipant("mentee"))
	assert.False(t, m.IsParticipant("other"))
	assert.False(t, m.IsParticipant(""))
}

func TestSessionLifecycle(t *testing.T) {
	m, err := New("m1", "mentor", "mentee", time.Now())
	require.NoError(t, err)

	require.NoError(t, m.AddSession(Session{Title: "Kickoff", Completed: true, Feedback: "x"}))
	assert.False(t, m.Sessions[0].Completed)
	assert.Empty(t, m.Sessions[0].Feedback)
	assert.Equal(t, StatusPending, m.Status)

	assert.ErrorIs(t, m.CompleteSession(0, "good"), ErrNotActive)

	require.NoError(t, m.SetStatus(StatusActive))
	assert.ErrorIs(t, m.CompleteSession(3, ""), ErrSessionNotFound)
	require.NoError(t, m.CompleteSession(0, "good"))
	assert.True(t, m.Sessions[0].Completed)
	assert.Equal(t, "good", m.Sessions[0].Feedback)
	assert.ErrorIs(t, m.CompleteSession(0, "again"), ErrSessionAlreadyCompleted)

	require.NoError(t, m.SetStatus(StatusCompleted))
	assert.ErrorIs(t, m.AddSession(Session{Title: "Late"}), ErrSessionsClosed)
}

func TestAddMessage(t *testing.T) {
	m, err := New("m1", "mentor", "mentee", time.Now())
	require.NoError(t, err)

	_, err = m.AddMessage("mentee", "   ", time.Now())
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msg, err := m.AddMessage("mentee", "  hello  ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Len(t, m.Messages, 1)
}
