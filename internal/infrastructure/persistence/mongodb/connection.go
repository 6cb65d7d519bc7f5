// Package mongodb implements the domain repositories on MongoDB. Sub-records
// are embedded in their parent document, and the enrollment and application
// guards are single conditional updates.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"cinda/internal/config"
)

const (
	collUsers         = "users"
	collCourses       = "courses"
	collOpportunities = "opportunities"
	collMentorships   = "mentorships"

	defaultTimeout = 5 * time.Second
)

var errEmptyURI = errors.New("mongodb uri is empty")

func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, errEmptyURI
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index backs user.ErrEmailTaken.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "stats.followers", Value: -1}, {Key: "createdAt", Value: -1}}},
		},
		collCourses: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "level", Value: 1}}},
		},
		collOpportunities: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "deadline", Value: 1}}},
		},
		collMentorships: {
			{Keys: bson.D{{Key: "mentor", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "mentee", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

type base struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newBase(db *mongo.Database, name string, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return base{coll: db.Collection(name), timeout: timeout}
}

func (b base) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, b.timeout)
}

// exists distinguishes "document missing" from "condition not met" after a
// conditional update matched nothing.
func (b base) exists(ctx context.Context, id string) (bool, error) {
	n, err := b.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func containsFold(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}
