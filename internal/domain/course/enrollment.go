package course

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

func NewEnrollment(userID string, now time.Time) Enrollment {
	return Enrollment{UserID: userID, EnrolledAt: now.UTC(), Progress: 0}
}

// FindEnrollment returns the index of userID's enrollment, or -1.
func (c *Course) FindEnrollment(userID string) int {
	for i := range c.EnrolledStudents {
		if c.EnrolledStudents[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (c *Course) IsEnrolled(userID string) bool {
	return c.FindEnrollment(userID) >= 0
}

// Enroll appends an enrollment for userID unless one already exists.
// The course is left untouched when ErrAlreadyEnrolled is returned.
func (c *Course) Enroll(e Enrollment) error {
	if c.IsEnrolled(e.UserID) {
		return ErrAlreadyEnrolled
	}
	c.EnrolledStudents = append(c.EnrolledStudents, e)
	return nil
}
