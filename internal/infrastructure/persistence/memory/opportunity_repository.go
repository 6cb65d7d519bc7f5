package memory

import (
	"context"
	"sort"
	"sync"

	"cinda/internal/domain/opportunity"
)

type OpportunityRepository struct {
	mu    sync.RWMutex
	items map[string]*opportunity.Opportunity
}

func NewOpportunityRepository() *OpportunityRepository {
	return &OpportunityRepository{items: make(map[string]*opportunity.Opportunity)}
}

func (r *OpportunityRepository) Create(ctx context.Context, o *opportunity.Opportunity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := cloneOpportunity(*o)

	r.mu.Lock()
	r.items[cp.ID] = &cp
	r.mu.Unlock()
	return nil
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return nil, opportunity.ErrNotFound
	}
	cp := cloneOpportunity(*o)
	return &cp, nil
}

func (r *OpportunityRepository) List(ctx context.Context, f opportunity.Filter) ([]opportunity.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]opportunity.Opportunity, 0, len(r.items))
	for _, o := range r.items {
		if f.Matches(*o) {
			out = append(out, cloneOpportunity(*o))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline.Before(out[j].Deadline)
	})
	return out, nil
}

func (r *OpportunityRepository) AddApplication(ctx context.Context, opportunityID string, a opportunity.Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[opportunityID]
	if !ok {
		return opportunity.ErrNotFound
	}
	return o.Apply(a)
}

func (r *OpportunityRepository) SetApplicationStatus(ctx context.Context, opportunityID, userID string, from, to opportunity.ApplicationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[opportunityID]
	if !ok {
		return opportunity.ErrNotFound
	}
	i := o.FindApplication(userID)
	if i < 0 {
		return opportunity.ErrApplicationNotFound
	}
	if cur := o.Applications[i].Status; cur != from {
		return &opportunity.TransitionError{From: cur, To: to}
	}
	return o.Review(userID, to)
}

func (r *OpportunityRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

func cloneOpportunity(o opportunity.Opportunity) opportunity.Opportunity {
	o.Applications = cloneSlice(o.Applications)
	return o
}
