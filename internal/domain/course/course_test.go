package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{
		"editing":           CategoryEditing,
		"sound_design":      CategorySoundDesign,
		" Color   Grading ": CategoryColorGrading,
	} {
		got, ok := ParseCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseCategory("VFX")
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("advanced")
	assert.True(t, ok)
	assert.Equal(t, LevelAdvanced, l)

	_, ok = ParseLevel("expert")
	assert.False(t, ok)
}

func TestFilterMatches(t *testing.T) {
	c := Course{Title: "Lighting Basics", Description: "three point", Category: CategoryLighting, Level: LevelBeginner}

	assert.True(t, Filter{}.Matches(c))
	assert.True(t, Filter{Category: CategoryLighting, Level: LevelBeginner}.Matches(c))
	assert.True(t, Filter{Search: "POINT"}.Matches(c))
	assert.False(t, Filter{Category: CategoryEditing}.Matches(c))
	assert.False(t, Filter{Level: LevelAdvanced}.Matches(c))
	assert.False(t, Filter{Search: "drone"}.Matches(c))
}

func TestSortLessonsIsStable(t *testing.T) {
	c := Course{Lessons: []Lesson{
		{Title: "b", Order: 2},
		{Title: "a1", Order: 1},
		{Title: "a2", Order: 1},
	}}
	c.SortLessons()
	assert.Equal(t, []string{"a1", "a2", "b"}, []string{c.Lessons[0].Title, c.Lessons[1].Title, c.Lessons[2].Title})
}
