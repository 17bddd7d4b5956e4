package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongoSet returns MongoDB-backed repositories, creating their indexes.
func NewMongoSet(ctx context.Context, db *mongo.Database, log *zap.Logger) (Set, error) {
	users, err := NewMongoUserRepository(ctx, db, log)
	if err != nil {
		return Set{}, err
	}
	bootcamps, err := NewMongoBootcampRepository(ctx, db, log)
	if err != nil {
		return Set{}, err
	}
	courses, err := NewMongoCourseRepository(ctx, db, log)
	if err != nil {
		return Set{}, err
	}
	reviews, err := NewMongoReviewRepository(ctx, db, log)
	if err != nil {
		return Set{}, err
	}
	return Set{Users: users, Bootcamps: bootcamps, Courses: courses, Reviews: reviews}, nil
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, log *zap.Logger, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes", zap.String("collection", coll.Name()), zap.Error(err))
		return fmt.Errorf("failed to create indexes for %s: %w", coll.Name(), err)
	}
	log.Debug("Ensured indexes", zap.String("collection", coll.Name()))
	return nil
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &models.InvalidIDError{ID: id}
	}
	return oid, nil
}

// optionalObjectID converts a reference that may legitimately be empty.
func optionalObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return objectID(id)
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func translateMongoError(err error, op string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.ErrDuplicateKey
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

var mongoOps = map[query.Op]string{
	query.Eq:  "$eq",
	query.Gt:  "$gt",
	query.Gte: "$gte",
	query.Lt:  "$lt",
	query.Lte: "$lte",
	query.In:  "$in",
}

// mongoField maps a query field to its document key.
func mongoField(field string) string {
	if field == query.IDField {
		return "_id"
	}
	return field
}

// mongoFilter translates query conditions into a filter document. Only
// operators from the fixed table above can appear in the result.
func mongoFilter(conds []query.Condition) (bson.M, error) {
	filter := bson.M{}
	for _, c := range conds {
		value, err := mongoValue(c)
		if err != nil {
			return nil, err
		}
		key := mongoField(c.Field)
		ops, ok := filter[key].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[key] = ops
		}
		ops[mongoOps[c.Op]] = value
	}
	return filter, nil
}

func mongoValue(c query.Condition) (any, error) {
	if c.Kind != query.ID {
		return c.Value, nil
	}
	if c.Op == query.In {
		raw := c.Value.([]any)
		ids := make(bson.A, 0, len(raw))
		for _, v := range raw {
			oid, err := objectID(fmt.Sprint(v))
			if err != nil {
				return nil, err
			}
			ids = append(ids, oid)
		}
		return ids, nil
	}
	return objectID(fmt.Sprint(c.Value))
}

// mongoFind builds the filter and find options for q.
func mongoFind(q query.Query) (bson.M, *options.FindOptions, error) {
	filter, err := mongoFilter(q.Conditions)
	if err != nil {
		return nil, nil, err
	}

	opts := options.Find().SetSkip(int64(q.Skip())).SetLimit(int64(q.Limit))
	if len(q.Select) > 0 {
		projection := bson.M{}
		for _, f := range q.Select {
			projection[mongoField(f)] = 1
		}
		opts.SetProjection(projection)
	}
	sort := bson.D{}
	for _, s := range q.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: mongoField(s.Field), Value: dir})
	}
	opts.SetSort(sort)

	return filter, opts, nil
}

// average runs $avg over field for the documents referencing bootcampID.
func average(ctx context.Context, coll *mongo.Collection, bootcampID, field string) (*float64, error) {
	oid, err := objectID(bootcampID)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": oid}}},
		{{Key: "$group", Value: bson.M{"_id": "$bootcamp", "avg": bson.M{"$avg": "$" + field}}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg *float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s average: %w", field, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Avg, nil
}

func findAll[D any, M any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, toModel func(*D) M) ([]M, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	out := make([]M, 0, len(docs))
	for i := range docs {
		out = append(out, toModel(&docs[i]))
	}
	return out, nil
}

func replaceOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc any, entity string) error {
	if id.IsZero() {
		return fmt.Errorf("cannot update %s without id", entity)
	}
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translateMongoError(err, "update "+entity)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, id, entity string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err, "delete "+entity)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
