package repositories

import (
	"context"
	"fmt"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const reviewCollectionName = "reviews"

// MongoReviewRepository implements ReviewRepository using MongoDB.
type MongoReviewRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoReviewRepository creates the repository with a unique (bootcamp, user) index.
func NewMongoReviewRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*MongoReviewRepository, error) {
	coll := db.Collection(reviewCollectionName)
	err := ensureIndexes(ctx, coll, log, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, err
	}
	return &MongoReviewRepository{collection: coll, logger: log.Named("MongoReviewRepository")}, nil
}

func (r *MongoReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	filter, opts, err := mongoFind(q)
	if err != nil {
		return nil, err
	}
	return findAll(ctx, r.collection, filter, opts, (*reviewDocument).toModel)
}

func (r *MongoReviewRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}

func (r *MongoReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc reviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "find review")
	}
	rv := doc.toModel()
	return &rv, nil
}

func (r *MongoReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = now()
	}
	doc, err := toReviewDocument(rv)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate review", zap.String("bootcamp_id", rv.BootcampID), zap.String("user_id", rv.UserID))
		}
		return translateMongoError(err, "insert review")
	}
	rv.ID = insertedHex(res)
	return nil
}

func (r *MongoReviewRepository) Update(ctx context.Context, rv *models.Review) error {
	doc, err := toReviewDocument(rv)
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.collection, doc.ID, doc, "review")
}

func (r *MongoReviewRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id, "review")
}

func (r *MongoReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	oid, err := objectID(bootcampID)
	if err != nil {
		return err
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"bootcamp": oid}); err != nil {
		return fmt.Errorf("failed to delete reviews of bootcamp: %w", err)
	}
	return nil
}

func (r *MongoReviewRepository) AverageRating(ctx context.Context, bootcampID string) (*float64, error) {
	return average(ctx, r.collection, bootcampID, "rating")
}
