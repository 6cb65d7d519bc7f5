// Package memory implements the domain repositories in process memory. It
// backs STORE_DRIVER=memory and the usecase tests.
package memory

type Store struct {
	Users         *UserRepository
	Courses       *CourseRepository
	Opportunities *OpportunityRepository
	Mentorships   *MentorshipRepository
}

func NewStore() *Store {
	return &Store{
		Users:         NewUserRepository(),
		Courses:       NewCourseRepository(),
		Opportunities: NewOpportunityRepository(),
		Mentorships:   NewMentorshipRepository(),
	}
}

// cloneSlice copies xs into a fresh non-nil slice, so empty lists encode as [].
func cloneSlice[T any](xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	return out
}
