package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinda/internal/database"
	"cinda/internal/domain/opportunity"
)

const opportunityColumns = `id, type, title, company, description, details, deadline, is_active, created_at`

type OpportunityRepository struct {
	base
}

func NewOpportunityRepository(db database.DB, timeout time.Duration) *OpportunityRepository {
	return &OpportunityRepository{base: newBase(db, timeout)}
}

// Create writes the opportunity and its applications in one transaction.
func (r *OpportunityRepository) Create(ctx context.Context, o *opportunity.Opportunity) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	return r.inTx(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, `
INSERT INTO opportunities (id, type, title, company, description, details, deadline, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			o.ID, string(o.Type), o.Title, o.Company, o.Description, o.Details, o.Deadline, o.IsActive, o.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert opportunity: %w", err)
		}

		for _, a := range o.Applications {
			if _, err := insertApplication(ctx, q, o.ID, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	o, err := scanOpportunity(r.db.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	list := []opportunity.Opportunity{*o}
	if err := r.loadApplications(ctx, list); err != nil {
		return nil, err
	}
	out := list[0]
	return &out, nil
}

func (r *OpportunityRepository) List(ctx context.Context, f opportunity.Filter) ([]opportunity.Opportunity, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `
SELECT `+opportunityColumns+` FROM opportunities
WHERE is_active
	AND ($1 = '' OR type = $1)
	AND ($2 = ''
		OR position(lower($2) in lower(title)) > 0
		OR position(lower($2) in lower(description)) > 0
		OR position(lower($2) in lower(company)) > 0)
ORDER BY deadline ASC, id`,
		string(f.Type), strings.TrimSpace(f.Search),
	)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	out := make([]opportunity.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadApplications(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OpportunityRepository) AddApplication(ctx context.Context, opportunityID string, a opportunity.Application) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	n, err := insertApplication(ctx, r.db, opportunityID, a)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM opportunities WHERE id = $1)`, opportunityID).Scan(&ok); err != nil {
		return fmt.Errorf("check opportunity: %w", err)
	}
	if !ok {
		return opportunity.ErrNotFound
	}
	return opportunity.ErrAlreadyApplied
}

func insertApplication(ctx context.Context, q database.Querier, opportunityID string, a opportunity.Application) (int64, error) {
	status := a.Status
	if status == "" {
		status = opportunity.StatusPending
	}
	n, err := q.Exec(ctx, `
INSERT INTO opportunity_applications (opportunity_id, user_id, status, cover_letter, applied_at)
SELECT $1, $2, $3, $4, $5 WHERE EXISTS (SELECT 1 FROM opportunities WHERE id = $1)
ON CONFLICT (opportunity_id, user_id) DO NOTHING`,
		opportunityID, a.UserID, string(status), a.CoverLetter, a.AppliedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	return n, nil
}

func (r *OpportunityRepository) SetApplicationStatus(ctx context.Context, opportunityID, userID string, from, to opportunity.ApplicationStatus) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	n, err := r.db.Exec(ctx, `
UPDATE opportunity_applications SET status = $4
WHERE opportunity_id = $1 AND user_id = $2 AND status = $3`,
		opportunityID, userID, string(from), string(to),
	)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n > 0 {
		return nil
	}

	var cur string
	err = r.db.QueryRow(ctx,
		`SELECT status FROM opportunity_applications WHERE opportunity_id = $1 AND user_id = $2`,
		opportunityID, userID,
	).Scan(&cur)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return r.missingApplication(ctx, opportunityID)
		}
		return fmt.Errorf("read application status: %w", err)
	}
	return &opportunity.TransitionError{From: opportunity.ApplicationStatus(cur), To: to}
}

func (r *OpportunityRepository) missingApplication(ctx context.Context, opportunityID string) error {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM opportunities WHERE id = $1)`, opportunityID).Scan(&ok); err != nil {
		return fmt.Errorf("check opportunity: %w", err)
	}
	if !ok {
		return opportunity.ErrNotFound
	}
	return opportunity.ErrApplicationNotFound
}

func (r *OpportunityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM opportunities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count opportunities: %w", err)
	}
	return n, nil
}

func (r *OpportunityRepository) loadApplications(ctx context.Context, list []opportunity.Opportunity) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Applications = []opportunity.Application{}
	}

	rows, err := r.db.Query(ctx, `
SELECT opportunity_id, user_id, status, cover_letter, applied_at FROM opportunity_applications
WHERE opportunity_id = ANY($1)
ORDER BY applied_at, user_id`, ids)
	if err != nil {
		return fmt.Errorf("load applications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			oppID, status string
			a             opportunity.Application
		)
		if err := rows.Scan(&oppID, &a.UserID, &status, &a.CoverLetter, &a.AppliedAt); err != nil {
			return err
		}
		a.Status = opportunity.ApplicationStatus(status)
		if i, ok := index[oppID]; ok {
			list[i].Applications = append(list[i].Applications, a)
		}
	}
	return rows.Err()
}

func scanOpportunity(row database.Row) (*opportunity.Opportunity, error) {
	var (
		o   opportunity.Opportunity
		typ string
	)
	err := row.Scan(&o.ID, &typ, &o.Title, &o.Company, &o.Description, &o.Details, &o.Deadline, &o.IsActive, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, database.ErrNoRows) {
			return nil, opportunity.ErrNotFound
		}
		return nil, fmt.Errorf("scan opportunity: %w", err)
	}
	o.Type = opportunity.Type(typ)
	return &o, nil
}
