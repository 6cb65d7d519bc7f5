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

	"cinda/internal/domain/user"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{base: newBase(db, collUsers, timeout)}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	doc := *u
	doc.Email = user.NormalizeEmail(doc.Email)
	if doc.Specialization == nil {
		doc.Specialization = []string{}
	}
	if doc.EnrolledCourses == nil {
		doc.EnrolledCourses = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": user.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var u user.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, id string, upd user.LoginUpdate) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	set := bson.M{"lastLogin": upd.At.UTC()}
	if upd.Role != nil {
		set["userType"] = *upd.Role
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}
	if upd.SetSpecialization {
		specialties := upd.Specialization
		if specialties == nil {
			specialties = []string{}
		}
		set["specialization"] = specialties
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	ctx, cancel := r.ctx(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u user.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) AddEnrolledCourse(ctx context.Context, id, courseID string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"enrolledCourses": courseID}})
	if err != nil {
		return fmt.Errorf("add enrolled course: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]user.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{}
	if q = strings.TrimSpace(q); q != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsFold(q)},
			bson.M{"bio": containsFold(q)},
			bson.M{"location": containsFold(q)},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "stats.followers", Value: -1}, {Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	out := make([]user.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}
