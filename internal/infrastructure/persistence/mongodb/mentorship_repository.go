package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cinda/internal/domain/mentorship"
)

type MentorshipRepository struct {
	base
}

func NewMentorshipRepository(db *mongo.Database, timeout time.Duration) *MentorshipRepository {
	return &MentorshipRepository{base: newBase(db, collMentorships, timeout)}
}

func (r *MentorshipRepository) Create(ctx context.Context, m *mentorship.Mentorship) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, normalizeMentorship(*m)); err != nil {
		return fmt.Errorf("insert mentorship: %w", err)
	}
	return nil
}

func (r *MentorshipRepository) GetByID(ctx context.Context, id string) (*mentorship.Mentorship, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var m mentorship.Mentorship
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mentorship.ErrNotFound
		}
		return nil, fmt.Errorf("find mentorship: %w", err)
	}
	return &m, nil
}

func (r *MentorshipRepository) Save(ctx context.Context, m *mentorship.Mentorship) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, normalizeMentorship(*m))
	if err != nil {
		return fmt.Errorf("save mentorship: %w", err)
	}
	if res.MatchedCount == 0 {
		return mentorship.ErrNotFound
	}
	return nil
}

func (r *MentorshipRepository) ListByMentor(ctx context.Context, mentorID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, bson.M{"mentor": mentorID})
}

func (r *MentorshipRepository) ListByMentee(ctx context.Context, menteeID string) ([]mentorship.Mentorship, error) {
	return r.list(ctx, bson.M{"mentee": menteeID})
}

func (r *MentorshipRepository) list(ctx context.Context, filter bson.M) ([]mentorship.Mentorship, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list mentorships: %w", err)
	}
	out := make([]mentorship.Mentorship, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode mentorships: %w", err)
	}
	return out, nil
}

func normalizeMentorship(m mentorship.Mentorship) mentorship.Mentorship {
	if m.Specialties == nil {
		m.Specialties = []string{}
	}
	if m.Sessions == nil {
		m.Sessions = []mentorship.Session{}
	}
	if m.Messages == nil {
		m.Messages = []mentorship.Message{}
	}
	return m
}
