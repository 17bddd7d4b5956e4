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

const bootcampCollectionName = "bootcamps"

// MongoBootcampRepository implements BootcampRepository using MongoDB.
type MongoBootcampRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoBootcampRepository creates the repository. Bootcamp names are unique and
// coordinates carry a 2dsphere index for radius searches.
func NewMongoBootcampRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*MongoBootcampRepository, error) {
	coll := db.Collection(bootcampCollectionName)
	err := ensureIndexes(ctx, coll, log, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "location.coordinates", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoBootcampRepository{collection: coll, logger: log.Named("MongoBootcampRepository")}, nil
}

func (r *MongoBootcampRepository) Find(ctx context.Context, q query.Query) ([]models.Bootcamp, error) {
	filter, opts, err := mongoFind(q)
	if err != nil {
		return nil, err
	}
	return findAll(ctx, r.collection, filter, opts, (*bootcampDocument).toModel)
}

func (r *MongoBootcampRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bootcamps: %w", err)
	}
	return n, nil
}

func (r *MongoBootcampRepository) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc bootcampDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "find bootcamp")
	}
	b := doc.toModel()
	return &b, nil
}

func (r *MongoBootcampRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Bootcamp, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return nil, nil
	}
	return findAll(ctx, r.collection, bson.M{"_id": bson.M{"$in": oids}}, options.Find(), (*bootcampDocument).toModel)
}

func (r *MongoBootcampRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := objectID(userID)
	if err != nil {
		return 0, err
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"user": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count bootcamps of user: %w", err)
	}
	return n, nil
}

func (r *MongoBootcampRepository) FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]models.Bootcamp, error) {
	filter := bson.M{
		"location.coordinates": bson.M{
			"$geoWithin": bson.M{"$centerSphere": bson.A{bson.A{lng, lat}, radius}},
		},
	}
	return findAll(ctx, r.collection, filter, options.Find(), (*bootcampDocument).toModel)
}

func (r *MongoBootcampRepository) Create(ctx context.Context, b *models.Bootcamp) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now()
	}
	doc, err := toBootcampDocument(b)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return translateMongoError(err, "insert bootcamp")
	}
	b.ID = insertedHex(res)
	r.logger.Debug("Bootcamp inserted", zap.String("bootcamp_id", b.ID))
	return nil
}

func (r *MongoBootcampRepository) Update(ctx context.Context, b *models.Bootcamp) error {
	doc, err := toBootcampDocument(b)
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.collection, doc.ID, doc, "bootcamp")
}

func (r *MongoBootcampRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id, "bootcamp")
}

func (r *MongoBootcampRepository) SetAverageCost(ctx context.Context, id string, value *float64) error {
	return r.setField(ctx, id, "averageCost", value)
}

func (r *MongoBootcampRepository) SetAverageRating(ctx context.Context, id string, value *float64) error {
	return r.setField(ctx, id, "averageRating", value)
}

func (r *MongoBootcampRepository) setField(ctx context.Context, id, field string, value *float64) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$unset": bson.M{field: ""}}
	if value != nil {
		update = bson.M{"$set": bson.M{field: *value}}
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translateMongoError(err, "set "+field)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
