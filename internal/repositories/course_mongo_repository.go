package repositories

import (
	"context"
	"fmt"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const courseCollectionName = "courses"

// MongoCourseRepository implements CourseRepository using MongoDB.
type MongoCourseRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMongoCourseRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*MongoCourseRepository, error) {
	coll := db.Collection(courseCollectionName)
	err := ensureIndexes(ctx, coll, log, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bootcamp", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoCourseRepository{collection: coll, logger: log.Named("MongoCourseRepository")}, nil
}

func (r *MongoCourseRepository) Find(ctx context.Context, q query.Query) ([]models.Course, error) {
	filter, opts, err := mongoFind(q)
	if err != nil {
		return nil, err
	}
	return findAll(ctx, r.collection, filter, opts, (*courseDocument).toModel)
}

func (r *MongoCourseRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

func (r *MongoCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc courseDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "find course")
	}
	c := doc.toModel()
	return &c, nil
}

func (r *MongoCourseRepository) FindByBootcamps(ctx context.Context, bootcampIDs []string) ([]models.Course, error) {
	oids := make([]primitive.ObjectID, 0, len(bootcampIDs))
	for _, id := range bootcampIDs {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findAll(ctx, r.collection, bson.M{"bootcamp": bson.M{"$in": oids}}, opts, (*courseDocument).toModel)
}

func (r *MongoCourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	doc, err := toCourseDocument(c)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return translateMongoError(err, "insert course")
	}
	c.ID = insertedHex(res)
	return nil
}

func (r *MongoCourseRepository) Update(ctx context.Context, c *models.Course) error {
	doc, err := toCourseDocument(c)
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.collection, doc.ID, doc, "course")
}

func (r *MongoCourseRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id, "course")
}

func (r *MongoCourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	oid, err := objectID(bootcampID)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"bootcamp": oid})
	if err != nil {
		return fmt.Errorf("failed to delete courses of bootcamp: %w", err)
	}
	r.logger.Debug("Deleted courses of bootcamp", zap.String("bootcamp_id", bootcampID), zap.Int64("count", res.DeletedCount))
	return nil
}

func (r *MongoCourseRepository) AverageTuition(ctx context.Context, bootcampID string) (*float64, error) {
	return average(ctx, r.collection, bootcampID, "tuition")
}
