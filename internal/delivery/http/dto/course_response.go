package dto

import "cinda/internal/domain/course"

type CourseListResponse struct {
	Courses []course.Course `json:"courses"`
	Total   int             `json:"total"`
}

type EnrollResponse struct {
	CourseID         string              `json:"courseId"`
	EnrolledStudents []course.Enrollment `json:"enrolledStudents"`
}
