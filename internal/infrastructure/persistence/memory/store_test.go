package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinda/internal/domain/course"
	"cinda/internal/domain/mentorship"
	"cinda/internal/domain/opportunity"
)

func TestCloneSliceNeverNil(t *testing.T) {
	assert.NotNil(t, cloneSlice[string](nil))
	assert.Empty(t, cloneSlice[string](nil))

	src := []string{"a", "b"}
	cp := cloneSlice(src)
	cp[0] = "z"
	assert.Equal(t, "a", src[0])
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Courses.Create(ctx, &course.Course{ID: "c1", Title: "Sound"}))
	require.NoError(t, s.Opportunities.Create(ctx, &opportunity.Opportunity{ID: "o1", Title: "Grant"}))
	require.NoError(t, s.Mentorships.Create(ctx, &mentorship.Mentorship{ID: "m1", MentorID: "a", MenteeID: "b"}))

	c, err := s.Courses.GetByID(ctx, "c1")
	require.NoError(t, err)
	o, err := s.Opportunities.GetByID(ctx, "o1")
	require.NoError(t, err)
	m, err := s.Mentorships.GetByID(ctx, "m1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value any
		field string
	}{
		{name: "course enrollments", value: c, field: "enrolledStudents"},
		{name: "opportunity applications", value: o, field: "applications"},
		{name: "mentorship sessions", value: m, field: "sessions"},
		{name: "mentorship messages", value: m, field: "messages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.value)
			require.NoError(t, err)
			var doc map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(b, &doc))
			assert.JSONEq(t, `[]`, string(doc[tt.field]))
		})
	}
}
