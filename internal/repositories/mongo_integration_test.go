//go:build integration

package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"devcamper/internal/models"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var testMongo *mongo.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	if err := pool.Retry(func() error {
		var errRetry error
		testMongo, errRetry = NewMongoClient(context.Background(), uri)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	code := m.Run()

	_ = testMongo.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func newMongoTestSet(t *testing.T) Set {
	t.Helper()
	db := testMongo.Database("devcamper_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	set, err := NewMongoSet(context.Background(), db, zap.NewNop())
	require.NoError(t, err)
	return set
}

func TestMongoBootcampRepository_Integration(t *testing.T) {
	set := newMongoTestSet(t)
	ctx := context.Background()
	owner := primitive.NewObjectID().Hex()

	mk := func(name string, cost float64, lng, lat float64) *models.Bootcamp {
		b := &models.Bootcamp{
			Name: name, Description: "d", Careers: []string{"Web Development"},
			AverageCost: &cost, Photo: models.DefaultPhoto, UserID: owner,
			Location: models.Location{Type: "Point", Coordinates: []float64{lng, lat}},
		}
		require.NoError(t, set.Bootcamps.Create(ctx, b))
		return b
	}
	boston := mk("Boston", 9000, -71.06, 42.36)
	mk("Cambridge", 12000, -71.11, 42.37)
	mk("Los Angeles", 15000, -118.24, 34.05)

	dup := &models.Bootcamp{Name: "Boston", Description: "d", Careers: []string{"Other"}, UserID: owner}
	assert.ErrorIs(t, set.Bootcamps.Create(ctx, dup), models.ErrDuplicateKey)

	got, err := set.Bootcamps.Find(ctx, parse(t, "averageCost[gt]=10000&sort=-averageCost", models.BootcampSchema))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Los Angeles", got[0].Name)

	near, err := set.Bootcamps.FindWithinRadius(ctx, -71.06, 42.36, 50/3963.0)
	require.NoError(t, err)
	assert.Len(t, near, 2)

	n, err := set.Bootcamps.CountByUser(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = set.Bootcamps.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrInvalidID)

	require.NoError(t, set.Bootcamps.SetAverageCost(ctx, boston.ID, nil))
	reloaded, err := set.Bootcamps.GetByID(ctx, boston.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.AverageCost)
}

func TestMongoReviewRepository_Integration(t *testing.T) {
	set := newMongoTestSet(t)
	ctx := context.Background()
	bootcampID := primitive.NewObjectID().Hex()
	userID := primitive.NewObjectID().Hex()

	require.NoError(t, set.Reviews.Create(ctx, &models.Review{Title: "a", Text: "t", Rating: 9, BootcampID: bootcampID, UserID: userID}))
	err := set.Reviews.Create(ctx, &models.Review{Title: "b", Text: "t", Rating: 1, BootcampID: bootcampID, UserID: userID})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)
	require.NoError(t, set.Reviews.Create(ctx, &models.Review{Title: "c", Text: "t", Rating: 5, BootcampID: bootcampID, UserID: primitive.NewObjectID().Hex()}))

	avg, err := set.Reviews.AverageRating(ctx, bootcampID)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 7, *avg, 0.001)

	require.NoError(t, set.Reviews.DeleteByBootcamp(ctx, bootcampID))
	avg, err = set.Reviews.AverageRating(ctx, bootcampID)
	require.NoError(t, err)
	assert.Nil(t, avg)
}
