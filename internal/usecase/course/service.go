package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cinda/internal/domain/course"
	"cinda/internal/domain/user"
	"cinda/internal/usecase"
)

var ErrInternal = errors.New("internal error")

// ListParams carries the raw query values of a course listing.
type ListParams struct {
	Category string
	Level    string
	Search   string
}

type Service struct {
	courses  course.Repository
	users    user.Repository
	cache    usecase.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(courses course.Repository, users user.Repository, cache usecase.Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		courses:  courses,
		users:    users,
		cache:    cache,
		cacheTTL: 5 * time.Minute,
		logger:   logger.With("component", "course"),
		now:      time.Now,
	}
}

// Filter turns query values into a store filter. "All" and "All Courses"
// disable the category filter; an unknown level is ignored.
func (p ListParams) Filter() course.Filter {
	var f course.Filter

	cat := strings.TrimSpace(p.Category)
	if cat != "" && !strings.EqualFold(cat, "All Courses") && !strings.EqualFold(cat, "All") {
		// Unknown categories still filter, matching nothing.
		f.Category, _ = course.ParseCategory(cat)
	}
	if lvl, ok := course.ParseLevel(p.Level); ok {
		f.Level = lvl
	}
	f.Search = strings.TrimSpace(p.Search)
	return f
}

func (s *Service) List(ctx context.Context, p ListParams) ([]course.Course, error) {
	f := p.Filter()
	key := usecase.CacheKey(usecase.CoursesListPrefix, struct {
		Category string `json:"category"`
		Level    string `json:"level"`
		Search   string `json:"search"`
	}{string(f.Category), string(f.Level), usecase.NormalizeSearchValue(f.Search)})

	var cached []course.Course
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		s.logger.Debug("cache hit", "key", key)
		return cached, nil
	}

	list, err := s.courses.List(ctx, f)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if err := s.cache.SetJSON(ctx, key, list, s.cacheTTL); err != nil {
		s.logger.Debug("cache write failed", "key", key, "error", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*course.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return nil, course.ErrNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return c, nil
}

// Enroll adds userID to the course, then records the course on the user. The
// second write is not transactional with the first; its failure is logged and
// the enrollment stands.
func (s *Service) Enroll(ctx context.Context, courseID, userID string) (*course.Course, error) {
	c, err := s.courses.AddEnrollment(ctx, courseID, course.NewEnrollment(userID, s.now()))
	if err != nil {
		if errors.Is(err, course.ErrNotFound) || errors.Is(err, course.ErrAlreadyEnrolled) {
			return nil, err
		}
		return nil, errors.Join(ErrInternal, err)
	}

	if err := s.users.AddEnrolledCourse(ctx, userID, courseID); err != nil {
		s.logger.Error("record enrolled course on user failed",
			"course_id", courseID, "user_id", userID, "error", err)
	}

	if err := s.cache.DeleteByPattern(ctx, usecase.CachePattern(usecase.CoursesListPrefix)); err != nil {
		s.logger.Warn("invalidate course list cache failed", "error", err)
	}
	return c, nil
}
