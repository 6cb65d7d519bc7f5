package course

import (
	"sort"
	"strings"
	"time"
)

type Category string

const (
	CategoryCinematography   Category = "CINEMATOGRAPHY"
	CategoryEditing          Category = "EDITING"
	CategoryDirecting        Category = "DIRECTING"
	CategorySoundDesign      Category = "SOUND DESIGN"
	CategoryScreenwriting    Category = "SCREENWRITING"
	CategoryLighting         Category = "LIGHTING"
	CategoryProductionDesign Category = "PRODUCTION DESIGN"
	CategoryColorGrading     Category = "COLOR GRADING"
	CategoryDocumentary      Category = "DOCUMENTARY"
)

var Categories = []Category{
	CategoryCinematography,
	CategoryEditing,
	CategoryDirecting,
	CategorySoundDesign,
	CategoryScreenwriting,
	CategoryLighting,
	CategoryProductionDesign,
	CategoryColorGrading,
	CategoryDocumentary,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCategory accepts any casing and either spaces or underscores between words.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	c := Category(strings.Join(strings.Fields(s), " "))
	return c, c.Valid()
}

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func ParseLevel(s string) (Level, bool) {
	for _, l := range []Level{LevelBeginner, LevelIntermediate, LevelAdvanced} {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, true
		}
	}
	return "", false
}

type Instructor struct {
	Name   string `json:"name" bson:"name"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty" bson:"bio,omitempty"`
}

type Lesson struct {
	Title     string   `json:"title" bson:"title"`
	VideoURL  string   `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	Duration  int      `json:"duration" bson:"duration"`
	Resources []string `json:"resources" bson:"resources"`
	Order     int      `json:"order" bson:"order"`
}

type Enrollment struct {
	UserID     string    `json:"user" bson:"user"`
	EnrolledAt time.Time `json:"enrolledAt" bson:"enrolledAt"`
	Progress   int       `json:"progress" bson:"progress"`
}

type Ratings struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

type Course struct {
	ID               string       `json:"id" bson:"_id"`
	Title            string       `json:"title" bson:"title"`
	Category         Category     `json:"category" bson:"category"`
	Instructor       Instructor   `json:"instructor" bson:"instructor"`
	Description      string       `json:"description" bson:"description"`
	Image            string       `json:"image,omitempty" bson:"image,omitempty"`
	Duration         string       `json:"duration,omitempty" bson:"duration,omitempty"`
	Level            Level        `json:"level" bson:"level"`
	Price            float64      `json:"price" bson:"price"`
	EnrolledStudents []Enrollment `json:"enrolledStudents" bson:"enrolledStudents"`
	Lessons          []Lesson     `json:"lessons" bson:"lessons"`
	Ratings          Ratings      `json:"ratings" bson:"ratings"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
}

// SortLessons orders lessons by their Order field, keeping insertion order on ties.
func (c *Course) SortLessons() {
	sort.SliceStable(c.Lessons, func(i, j int) bool {
		return c.Lessons[i].Order < c.Lessons[j].Order
	})
}

// Filter selects courses for listing. Zero values match everything.
type Filter struct {
	Category Category
	Level    Level
	Search   string
}

// Matches applies the filter in memory with the same semantics the stores use.
func (f Filter) Matches(c Course) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}
