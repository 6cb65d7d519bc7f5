package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cinda/internal/domain/course"
)

type CoursesSeeder struct {
	Now time.Time
}

func (CoursesSeeder) Name() string { return "courses" }

// Run inserts the catalog only when no course exists yet.
func (s CoursesSeeder) Run(ctx context.Context, t Target) (int, error) {
	n, err := t.Courses.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	items := demoCourses()
	for i := range items {
		c := items[i]
		c.ID = uuid.NewString()
		// Newest first in listings follows catalog order.
		c.CreatedAt = now.Add(-time.Duration(i) * time.Hour)
		c.EnrolledStudents = []course.Enrollment{}
		if err := t.Courses.Create(ctx, &c); err != nil {
			return i, fmt.Errorf("create %q: %w", c.Title, err)
		}
	}
	return len(items), nil
}

func demoCourses() []course.Course {
	return []course.Course{
		{
			Title:    "Cinematography Fundamentals",
			Category: course.CategoryCinematography,
			Instructor: course.Instructor{
				Name: "Sari Wulandari",
				Bio:  "Director of photography for three festival features.",
			},
			Description: "Camera movement, lens choice and composition for narrative film.",
			Duration:    "6 weeks",
			Level:       course.LevelBeginner,
			Price:       49,
			Lessons: []course.Lesson{
				{Title: "The frame and the lens", Duration: 35, Order: 1, Resources: []string{}},
				{Title: "Moving the camera", Duration: 42, Order: 2, Resources: []string{}},
				{Title: "Exposure on set", Duration: 38, Order: 3, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.8, Count: 126},
		},
		{
			Title:    "Lighting for Low Budget Sets",
			Category: course.CategoryLighting,
			Instructor: course.Instructor{
				Name: "Bima Prasetyo",
				Bio:  "Gaffer on commercials and independent drama.",
			},
			Description: "Practical three point setups, bounce and negative fill with minimal kit.",
			Duration:    "4 weeks",
			Level:       course.LevelIntermediate,
			Price:       39,
			Lessons: []course.Lesson{
				{Title: "Reading available light", Duration: 30, Order: 1, Resources: []string{}},
				{Title: "Shaping with negative fill", Duration: 33, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.6, Count: 58},
		},
		{
			Title:    "Film Editing Masterclass",
			Category: course.CategoryEditing,
			Instructor: course.Instructor{
				Name: "Dewi Lestari",
				Bio:  "Editor of award winning documentaries.",
			},
			Description: "Rhythm, continuity and story structure in the cutting room.",
			Duration:    "8 weeks",
			Level:       course.LevelAdvanced,
			Price:       89,
			Lessons: []course.Lesson{
				{Title: "Assembly to rough cut", Duration: 50, Order: 1, Resources: []string{}},
				{Title: "Cutting dialogue", Duration: 45, Order: 2, Resources: []string{}},
				{Title: "Picture lock", Duration: 40, Order: 3, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.9, Count: 204},
		},
		{
			Title:    "Directing Actors",
			Category: course.CategoryDirecting,
			Instructor: course.Instructor{
				Name: "Arief Nugroho",
				Bio:  "Stage and screen director.",
			},
			Description: "Rehearsal techniques and on set communication for first time directors.",
			Duration:    "5 weeks",
			Level:       course.LevelIntermediate,
			Price:       59,
			Lessons: []course.Lesson{
				{Title: "Reading the script with actors", Duration: 40, Order: 1, Resources: []string{}},
				{Title: "Blocking a scene", Duration: 44, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.7, Count: 91},
		},
		{
			Title:    "Sound Design Essentials",
			Category: course.CategorySoundDesign,
			Instructor: course.Instructor{
				Name: "Rina Hapsari",
				Bio:  "Re-recording mixer and foley artist.",
			},
			Description: "Production sound, foley and mixing a short film soundtrack.",
			Duration:    "4 weeks",
			Level:       course.LevelBeginner,
			Price:       35,
			Lessons: []course.Lesson{
				{Title: "Recording clean dialogue", Duration: 28, Order: 1, Resources: []string{}},
				{Title: "Building a foley track", Duration: 36, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.5, Count: 47},
		},
		{
			Title:    "Screenwriting: The Short Film",
			Category: course.CategoryScreenwriting,
			Instructor: course.Instructor{
				Name: "Yusuf Hakim",
				Bio:  "Writer of festival shorts and a television series.",
			},
			Description: "From premise to a finished ten page script.",
			Duration:    "6 weeks",
			Level:       course.LevelBeginner,
			Price:       29,
			Lessons: []course.Lesson{
				{Title: "Finding the premise", Duration: 25, Order: 1, Resources: []string{}},
				{Title: "Scene structure", Duration: 32, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.4, Count: 73},
		},
		{
			Title:    "Color Grading in Practice",
			Category: course.CategoryColorGrading,
			Instructor: course.Instructor{
				Name: "Kevin Halim",
				Bio:  "Colorist for music videos and features.",
			},
			Description: "Primary and secondary correction, looks and delivery.",
			Duration:    "3 weeks",
			Level:       course.LevelAdvanced,
			Price:       69,
			Lessons: []course.Lesson{
				{Title: "Balancing the image", Duration: 37, Order: 1, Resources: []string{}},
				{Title: "Building a look", Duration: 41, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.8, Count: 65},
		},
		{
			Title:    "Documentary Storytelling",
			Category: course.CategoryDocumentary,
			Instructor: course.Instructor{
				Name: "Maya Sasmita",
				Bio:  "Documentary producer and director.",
			},
			Description: "Access, interviews and shaping real events into a story.",
			Duration:    "6 weeks",
			Level:       course.LevelIntermediate,
			Price:       55,
			Lessons: []course.Lesson{
				{Title: "Gaining access", Duration: 30, Order: 1, Resources: []string{}},
				{Title: "The interview", Duration: 39, Order: 2, Resources: []string{}},
			},
			Ratings: course.Ratings{Average: 4.7, Count: 88},
		},
	}
}
