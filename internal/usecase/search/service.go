package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	ranking "cinda/internal/search"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	CategoryAll           = "all"
	CategoryCourses       = "courses"
	CategoryOpportunities = "opportunities"
	CategoryUsers         = "users"

	// variantLookups caps how many query variants are sent to the stores.
	variantLookups = 4
)

var (
	ErrQueryRequired   = errors.New("search query is required")
	ErrInvalidCategory = errors.New("invalid search category")
	ErrInternal        = errors.New("internal error")
)

type Params struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

type Result struct {
	Query         string                    `json:"query"`
	Category      string                    `json:"category"`
	Courses       []course.Course           `json:"courses,omitempty"`
	Opportunities []opportunity.Opportunity `json:"opportunities,omitempty"`
	Users         []user.User               `json:"users,omitempty"`
	TotalResults  int                       `json:"totalResults"`
	Pagination    Pagination                `json:"pagination"`
}

type Service struct {
	courses       course.Repository
	opportunities opportunity.Repository
	users         user.Repository
	now           func() time.Time
}

func NewService(courses course.Repository, opportunities opportunity.Repository, users user.Repository) *Service {
	return &Service{courses: courses, opportunities: opportunities, users: users, now: time.Now}
}

// Search looks up every requested kind with the query and its synonym
// variants, ranks each kind, then pages it. With category "all" each kind
// gets a quarter of the limit and no offset.
func (s *Service) Search(ctx context.Context, p Params) (Result, error) {
	qc := ranking.ProcessQuery(p.Query)
	if qc.Normalized == "" {
		return Result{}, ErrQueryRequired
	}

	category := strings.ToLower(strings.TrimSpace(p.Category))
	if category == "" {
		category = CategoryAll
	}
	switch category {
	case CategoryAll, CategoryCourses, CategoryOpportunities, CategoryUsers:
	default:
		return Result{}, ErrInvalidCategory
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	window := func(kind string) (int, int) {
		if category == kind {
			return limit, (page - 1) * limit
		}
		n := limit / 4
		if n < 1 {
			n = 1
		}
		return n, 0
	}

	variants := qc.Variants
	lookups := variants
	if len(lookups) > variantLookups {
		lookups = lookups[:variantLookups]
	}
	now := s.now().UTC()

	res := Result{Query: strings.TrimSpace(p.Query), Category: category}

	if category == CategoryAll || category == CategoryCourses {
		n, off := window(CategoryCourses)
		list, err := s.searchCourses(ctx, lookups, variants, now)
		if err != nil {
			return Result{}, err
		}
		res.Courses = paginate(list, off, n)
		res.TotalResults += len(res.Courses)
	}
	if category == CategoryAll || category == CategoryOpportunities {
		n, off := window(CategoryOpportunities)
		list, err := s.searchOpportunities(ctx, lookups, variants, now)
		if err != nil {
			return Result{}, err
		}
		res.Opportunities = paginate(list, off, n)
		res.TotalResults += len(res.Opportunities)
	}
	if category == CategoryAll || category == CategoryUsers {
		n, off := window(CategoryUsers)
		list, err := s.searchUsers(ctx, lookups, variants, now, off+n)
		if err != nil {
			return Result{}, err
		}
		res.Users = paginate(list, off, n)
		res.TotalResults += len(res.Users)
	}

	res.Pagination = Pagination{
		CurrentPage: page,
		HasNext:     res.TotalResults == limit,
		HasPrev:     page > 1,
	}
	return res, nil
}

func (s *Service) searchCourses(ctx context.Context, lookups, variants []string, now time.Time) ([]course.Course, error) {
	byID := make(map[string]course.Course)
	order := make([]string, 0)
	for _, v := range lookups {
		list, err := s.courses.List(ctx, course.Filter{Search: v})
		if err != nil {
			return nil, errors.Join(ErrInternal, err)
		}
		for _, c := range list {
			if _, ok := byID[c.ID]; !ok {
				byID[c.ID] = c
				order = append(order, c.ID)
			}
		}
	}

	docs := make([]ranking.Document, 0, len(order))
	for _, id := range order {
		c := byID[id]
		docs = append(docs, ranking.Document{
			Kind:        ranking.KindCourse,
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Secondary:   c.Instructor.Name,
			Image:       c.Image,
			Popularity:  len(c.EnrolledStudents),
			CreatedAt:   c.CreatedAt,
		})
	}

	out := make([]course.Course, 0, len(docs))
	for _, d := range ranking.Rank(docs, variants, now) {
		out = append(out, byID[d.ID])
	}
	return out, nil
}

// searchOpportunities only returns postings whose deadline has not passed.
func (s *Service) searchOpportunities(ctx context.Context, lookups, variants []string, now time.Time) ([]opportunity.Opportunity, error) {
	byID := make(map[string]opportunity.Opportunity)
	order := make([]string, 0)
	for _, v := range lookups {
		list, err := s.opportunities.List(ctx, opportunity.Filter{Search: v})
		if err != nil {
			return nil, errors.Join(ErrInternal, err)
		}
		for _, o := range list {
			if !o.Deadline.After(now) {
				continue
			}
			if _, ok := byID[o.ID]; !ok {
				byID[o.ID] = o
				order = append(order, o.ID)
			}
		}
	}

	docs := make([]ranking.Document, 0, len(order))
	for _, id := range order {
		o := byID[id]
		docs = append(docs, ranking.Document{
			Kind:        ranking.KindOpportunity,
			ID:          o.ID,
			Title:       o.Title,
			Description: o.Description,
			Secondary:   o.Company,
			Popularity:  len(o.Applications),
			CreatedAt:   o.CreatedAt,
		})
	}

	out := make([]opportunity.Opportunity, 0, len(docs))
	for _, d := range ranking.Rank(docs, variants, now) {
		out = append(out, byID[d.ID])
	}
	return out, nil
}

func (s *Service) searchUsers(ctx context.Context, lookups, variants []string, now time.Time, want int) ([]user.User, error) {
	byID := make(map[string]user.User)
	order := make([]string, 0)
	for _, v := range lookups {
		list, err := s.users.Search(ctx, v, want*2)
		if err != nil {
			return nil, errors.Join(ErrInternal, err)
		}
		for _, u := range list {
			if _, ok := byID[u.ID]; !ok {
				u.PasswordHash = ""
				byID[u.ID] = u
				order = append(order, u.ID)
			}
		}
	}

	docs := make([]ranking.Document, 0, len(order))
	for _, id := range order {
		u := byID[id]
		docs = append(docs, ranking.Document{
			Kind:        ranking.KindUser,
			ID:          u.ID,
			Title:       u.Name,
			Description: u.Bio,
			Secondary:   u.Location,
			Image:       u.Avatar,
			Popularity:  u.Stats.Followers,
			CreatedAt:   u.CreatedAt,
		})
	}

	out := make([]user.User, 0, len(docs))
	for _, d := range ranking.Rank(docs, variants, now) {
		out = append(out, byID[d.ID])
	}
	return out, nil
}

func paginate[T any](list []T, offset, n int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := offset + n
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
