package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cinda/internal/domain/opportunity"
)

type OpportunityRepository struct {
	base
}

func NewOpportunityRepository(db *mongo.Database, timeout time.Duration) *OpportunityRepository {
	return &OpportunityRepository{base: newBase(db, collOpportunities, timeout)}
}

func (r *OpportunityRepository) Create(ctx context.Context, o *opportunity.Opportunity) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	doc := *o
	if doc.Applications == nil {
		doc.Applications = []opportunity.Application{}
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

func (r *OpportunityRepository) GetByID(ctx context.Context, id string) (*opportunity.Opportunity, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var o opportunity.Opportunity
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, opportunity.ErrNotFound
		}
		return nil, fmt.Errorf("find opportunity: %w", err)
	}
	return &o, nil
}

func (r *OpportunityRepository) List(ctx context.Context, f opportunity.Filter) ([]opportunity.Opportunity, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{"isActive": true}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"title": containsFold(q)},
			bson.M{"description": containsFold(q)},
			bson.M{"company": containsFold(q)},
		}
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	out := make([]opportunity.Opportunity, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode opportunities: %w", err)
	}
	return out, nil
}

func (r *OpportunityRepository) AddApplication(ctx context.Context, opportunityID string, a opportunity.Application) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":               opportunityID,
		"applications.user": bson.M{"$ne": a.UserID},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"applications": a}})
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	ok, err := r.exists(ctx, opportunityID)
	if err != nil {
		return fmt.Errorf("apply: %w", err)
	}
	if !ok {
		return opportunity.ErrNotFound
	}
	return opportunity.ErrAlreadyApplied
}

func (r *OpportunityRepository) SetApplicationStatus(ctx context.Context, opportunityID, userID string, from, to opportunity.ApplicationStatus) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":          opportunityID,
		"applications": bson.M{"$elemMatch": bson.M{"user": userID, "status": from}},
	}
	update := bson.M{"$set": bson.M{"applications.$.status": to}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("review application: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var o opportunity.Opportunity
	if err := r.coll.FindOne(ctx, bson.M{"_id": opportunityID}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return opportunity.ErrNotFound
		}
		return fmt.Errorf("review application: %w", err)
	}
	i := o.FindApplication(userID)
	if i < 0 {
		return opportunity.ErrApplicationNotFound
	}
	return &opportunity.TransitionError{From: o.Applications[i].Status, To: to}
}

func (r *OpportunityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}
