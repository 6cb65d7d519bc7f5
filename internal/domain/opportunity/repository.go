package opportunity

import "context"

type Repository interface {
	Create(ctx context.Context, o *Opportunity) error
	GetByID(ctx context.Context, id string) (*Opportunity, error)
	// List returns active opportunities matching f ordered by ascending deadline.
	List(ctx context.Context, f Filter) ([]Opportunity, error)
	// AddApplication appends a in one atomic step conditioned on no application
	// for a.UserID existing. It returns ErrNotFound or ErrAlreadyApplied.
	AddApplication(ctx context.Context, opportunityID string, a Application) error
	// SetApplicationStatus changes an application's status only if it is still
	// from. A lost race surfaces as a TransitionError from the current status.
	SetApplicationStatus(ctx context.Context, opportunityID, userID string, from, to ApplicationStatus) error
	Count(ctx context.Context) (int64, error)
}
