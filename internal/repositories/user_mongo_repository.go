package repositories

import (
	"context"
	"fmt"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const userCollectionName = "users"

// MongoUserRepository implements UserRepository using MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoUserRepository creates the repository and ensures the unique email index.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database, log *zap.Logger) (*MongoUserRepository, error) {
	coll := db.Collection(userCollectionName)
	err := ensureIndexes(ctx, coll, log, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	if err != nil {
		return nil, err
	}
	return &MongoUserRepository{collection: coll, logger: log.Named("MongoUserRepository")}, nil
}

func (r *MongoUserRepository) Find(ctx context.Context, q query.Query) ([]models.User, error) {
	filter, opts, err := mongoFind(q)
	if err != nil {
		return nil, err
	}
	return findAll(ctx, r.collection, filter, opts, (*userDocument).toModel)
}

func (r *MongoUserRepository) CountAll(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":  tokenHash,
		"resetPasswordExpire": bson.M{"$gt": now},
	})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoError(err, "find user")
	}
	u := doc.toModel()
	return &u, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Debug("Duplicate user email", zap.String("email", user.Email))
		}
		return translateMongoError(err, "insert user")
	}
	user.ID = insertedHex(res)
	return nil
}

func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	doc, err := toUserDocument(user)
	if err != nil {
		return err
	}
	return replaceOne(ctx, r.collection, doc.ID, doc, "user")
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, r.collection, id, "user")
}
