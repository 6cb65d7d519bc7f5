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

	"cinda/internal/domain/course"
)

type CourseRepository struct {
	base
}

func NewCourseRepository(db *mongo.Database, timeout time.Duration) *CourseRepository {
	return &CourseRepository{base: newBase(db, collCourses, timeout)}
}

func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	doc := *c
	doc.SortLessons()
	if doc.EnrolledStudents == nil {
		doc.EnrolledStudents = []course.Enrollment{}
	}
	if doc.Lessons == nil {
		doc.Lessons = []course.Lesson{}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var c course.Course
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, course.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &c, nil
}

func (r *CourseRepository) List(ctx context.Context, f course.Filter) ([]course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		filter["$or"] = bson.A{
			bson.M{"title": containsFold(q)},
			bson.M{"description": containsFold(q)},
		}
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]course.Course, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return out, nil
}

// AddEnrollment pushes e only when no element of enrolledStudents already
// carries e.UserID, so concurrent duplicates cannot both succeed.
func (r *CourseRepository) AddEnrollment(ctx context.Context, courseID string, e course.Enrollment) (*course.Course, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":                   courseID,
		"enrolledStudents.user": bson.M{"$ne": e.UserID},
	}
	update := bson.M{"$push": bson.M{"enrolledStudents": e}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c course.Course
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("enroll: %w", err)
	}

	ok, err := r.exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("enroll: %w", err)
	}
	if !ok {
		return nil, course.ErrNotFound
	}
	return nil, course.ErrAlreadyEnrolled
}

func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}
