package geocoder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"devcamper/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bostonResponse = `{
  "info": {"statuscode": 0, "messages": []},
  "results": [{
    "locations": [{
      "street": "233 Bay State Rd",
      "adminArea5": "Boston",
      "adminArea3": "MA",
      "adminArea1": "US",
      "postalCode": "02215",
      "latLng": {"lat": 42.350846, "lng": -71.105275}
    }]
  }]
}`

func TestMapQuest_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocoding/v1/address", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "233 Bay State Rd Boston MA 02215", r.URL.Query().Get("location"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(bostonResponse))
	}))
	defer srv.Close()

	g := NewMapQuest(srv.URL, "secret", zap.NewNop())
	res, err := g.Geocode(context.Background(), "233 Bay State Rd Boston MA 02215")
	require.NoError(t, err)

	assert.Equal(t, &Result{
		Latitude:         42.350846,
		Longitude:        -71.105275,
		FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		Street:           "233 Bay State Rd",
		City:             "Boston",
		StateCode:        "MA",
		Zipcode:          "02215",
		Country:          "US",
	}, res)
}

func TestMapQuest_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info":{"statuscode":0},"results":[{"locations":[]}]}`))
	}))
	defer srv.Close()

	_, err := NewMapQuest(srv.URL, "k", zap.NewNop()).Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestMapQuest_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewMapQuest(srv.URL, "bad", zap.NewNop()).Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}

type countingGeocoder struct {
	calls atomic.Int32
	res   *Result
}

func (c *countingGeocoder) Geocode(context.Context, string) (*Result, error) {
	c.calls.Add(1)
	return c.res, nil
}

func TestCached_Geocode(t *testing.T) {
	inner := &countingGeocoder{res: &Result{Latitude: 1, Longitude: 2, Zipcode: "02118"}}
	g := NewCached(inner, cache.NewMemoryRepository(), time.Hour, zap.NewNop())
	ctx := context.Background()

	first, err := g.Geocode(ctx, "02118")
	require.NoError(t, err)
	second, err := g.Geocode(ctx, " 02118 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), inner.calls.Load())
}
