package opportunity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	"cinda/internal/usecase"
)

var (
	ErrForbidden = errors.New("only sponsors can review applications")
	ErrInternal  = errors.New("internal error")
)

type ListParams struct {
	Type   string
	Search string
}

// Filter upper-cases the type and treats "All" as no type filter.
func (p ListParams) Filter() opportunity.Filter {
	var f opportunity.Filter
	t := strings.TrimSpace(p.Type)
	if t != "" && !strings.EqualFold(t, "All") {
		f.Type, _ = opportunity.ParseType(t)
	}
	f.Search = strings.TrimSpace(p.Search)
	return f
}

type Service struct {
	opportunities opportunity.Repository
	cache         usecase.Cache
	cacheTTL      time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewService(opportunities opportunity.Repository, cache usecase.Cache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		opportunities: opportunities,
		cache:         cache,
		cacheTTL:      5 * time.Minute,
		logger:        logger.With("component", "opportunity"),
		now:           time.Now,
	}
}

func (s *Service) List(ctx context.Context, p ListParams) ([]opportunity.Opportunity, error) {
	f := p.Filter()
	key := usecase.CacheKey(usecase.OpportunitiesListPrefix, struct {
		Type   string `json:"type"`
		Search string `json:"search"`
	}{string(f.Type), usecase.NormalizeSearchValue(f.Search)})

	var cached []opportunity.Opportunity
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	list, err := s.opportunities.List(ctx, f)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	if err := s.cache.SetJSON(ctx, key, list, s.cacheTTL); err != nil {
		s.logger.Debug("cache write failed", "key", key, "error", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	o, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			return nil, opportunity.ErrNotFound
		}
		return nil, errors.Join(ErrInternal, err)
	}
	return o, nil
}

// Apply records a pending application. The deadline is not checked.
func (s *Service) Apply(ctx context.Context, opportunityID, userID, coverLetter string) error {
	a := opportunity.NewApplication(userID, strings.TrimSpace(coverLetter), s.now())
	if err := s.opportunities.AddApplication(ctx, opportunityID, a); err != nil {
		if errors.Is(err, opportunity.ErrNotFound) || errors.Is(err, opportunity.ErrAlreadyApplied) {
			return err
		}
		return errors.Join(ErrInternal, err)
	}
	s.invalidate(ctx)
	return nil
}

// Review moves an applicant's application along the transition table. Only
// sponsors may review.
func (s *Service) Review(ctx context.Context, opportunityID string, reviewer user.Role, applicantID, status string) (opportunity.Application, error) {
	if reviewer != user.RoleSponsor {
		return opportunity.Application{}, ErrForbidden
	}
	to, err := opportunity.ParseApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		return opportunity.Application{}, err
	}

	o, err := s.Get(ctx, opportunityID)
	if err != nil {
		return opportunity.Application{}, err
	}
	i := o.FindApplication(applicantID)
	if i < 0 {
		return opportunity.Application{}, opportunity.ErrApplicationNotFound
	}
	app := o.Applications[i]
	if err := opportunity.CanTransition(app.Status, to); err != nil {
		return opportunity.Application{}, err
	}

	if err := s.opportunities.SetApplicationStatus(ctx, opportunityID, applicantID, app.Status, to); err != nil {
		switch {
		case errors.Is(err, opportunity.ErrInvalidTransition),
			errors.Is(err, opportunity.ErrNotFound),
			errors.Is(err, opportunity.ErrApplicationNotFound):
			return opportunity.Application{}, err
		}
		return opportunity.Application{}, errors.Join(ErrInternal, err)
	}
	s.invalidate(ctx)

	app.Status = to
	return app, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, usecase.CachePattern(usecase.OpportunitiesListPrefix)); err != nil {
		s.logger.Warn("invalidate opportunity list cache failed", "error", err)
	}
}
