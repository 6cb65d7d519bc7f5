package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cinda/internal/domain/opportunity"
)

type OpportunitiesSeeder struct {
	Now time.Time
}

func (OpportunitiesSeeder) Name() string { return "opportunities" }

// Run inserts the board only when no opportunity exists yet. Deadlines are
// relative to Now so a fresh seed is always open.
func (s OpportunitiesSeeder) Run(ctx context.Context, t Target) (int, error) {
	n, err := t.Opportunities.Count(ctx)
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

	items := demoOpportunities()
	for i := range items {
		o := items[i].Opportunity
		o.ID = uuid.NewString()
		o.Deadline = now.Add(items[i].opensFor)
		o.CreatedAt = now
		o.IsActive = true
		o.Applications = []opportunity.Application{}
		if err := t.Opportunities.Create(ctx, &o); err != nil {
			return i, fmt.Errorf("create %q: %w", o.Title, err)
		}
	}
	return len(items), nil
}

type demoOpportunity struct {
	opportunity.Opportunity
	opensFor time.Duration
}

const day = 24 * time.Hour

func demoOpportunities() []demoOpportunity {
	return []demoOpportunity{
		{
			Opportunity: opportunity.Opportunity{
				Type:        opportunity.TypeGrant,
				Title:       "Short Film Production Grant",
				Company:     "Nusantara Film Fund",
				Description: "Funding for first and second time directors producing a short film.",
				Details:     opportunity.Details{Funding: "USD 10,000", Location: "Indonesia", Category: "Short Film"},
			},
			opensFor: 45 * day,
		},
		{
			Opportunity: opportunity.Opportunity{
				Type:        opportunity.TypeJob,
				Title:       "Assistant Editor",
				Company:     "Layar Pictures",
				Description: "Organize footage, sync dailies and prepare turnovers for a feature.",
				Details:     opportunity.Details{Location: "Jakarta", Duration: "6 months", Category: "Editing"},
			},
			opensFor: 20 * day,
		},
		{
			Opportunity: opportunity.Opportunity{
				Type:        opportunity.TypeCompetition,
				Title:       "48 Hour Film Challenge",
				Company:     "CI-NDA Community",
				Description: "Write, shoot and edit a film in one weekend.",
				Details:     opportunity.Details{Funding: "USD 2,000 prize", Location: "Online", Category: "Competition"},
			},
			opensFor: 14 * day,
		},
		{
			Opportunity: opportunity.Opportunity{
				Type:        opportunity.TypeCollaboration,
				Title:       "Cinematographer for Documentary",
				Company:     "Rumah Dokumenter",
				Description: "Looking for a DP for an observational documentary shot over three months.",
				Details:     opportunity.Details{Location: "Yogyakarta", Duration: "3 months", Category: "Documentary"},
			},
			opensFor: 30 * day,
		},
		{
			Opportunity: opportunity.Opportunity{
				Type:        opportunity.TypeInternship,
				Title:       "Post Production Internship",
				Company:     "Studio Warna",
				Description: "Hands-on internship in color grading and sound mixing.",
				Details:     opportunity.Details{Location: "Bandung", Duration: "4 months", Category: "Post Production"},
			},
			opensFor: 60 * day,
		},
	}
}
