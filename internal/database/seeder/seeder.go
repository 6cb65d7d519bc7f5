// Package seeder loads the demo course catalog and opportunity board into an
// empty store.
package seeder

import (
	"context"

	"cinda/internal/domain/course"
	"cinda/internal/domain/opportunity"
)

// Target is the set of repositories a seeder writes to.
type Target struct {
	Courses       course.Repository
	Opportunities opportunity.Repository
}

type Seeder interface {
	Name() string
	Run(ctx context.Context, t Target) (int, error)
}
