package services_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"devcamper/internal/apperror"
	"devcamper/internal/events"
	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/repositories"
	"devcamper/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type bootcampFixture struct {
	bootcamps *MockBootcampRepository
	courses   *MockCourseRepository
	reviews   *MockReviewRepository
	geo       *MockGeocoder
	photos    *MockPhotoStore
	service   *services.BootcampService
}

func newBootcampFixture(maxPhoto int64) *bootcampFixture {
	f := &bootcampFixture{
		bootcamps: new(MockBootcampRepository),
		courses:   new(MockCourseRepository),
		reviews:   new(MockReviewRepository),
		geo:       new(MockGeocoder),
		photos:    new(MockPhotoStore),
	}
	repos := repositories.Set{Bootcamps: f.bootcamps, Courses: f.courses, Reviews: f.reviews}
	f.service = services.NewBootcampService(repos, f.geo, f.photos, events.Nop{}, maxPhoto, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func validBootcampInput() services.BootcampInput {
	careers := []string{"Web Development", "UI/UX"}
	return services.BootcampInput{
		Name:        strPtr("Devworks Bootcamp"),
		Description: strPtr("Full stack web development"),
		Address:     strPtr("233 Bay State Rd Boston MA 02215"),
		Careers:     &careers,
	}
}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "devworks_bootcamp", services.Slugify("Devworks Bootcamp"))
	assert.Equal(t, "modern_tech_bootcamp", services.Slugify("  Modern Tech -- Bootcamp "))
}

func TestBootcampService_Create(t *testing.T) {
	f := newBootcampFixture(1 << 20)
	ctx := context.Background()
	publisher := &models.User{ID: "pub-1", Role: models.RolePublisher}

	f.bootcamps.On("CountByUser", ctx, "pub-1").Return(int64(0), nil)
	f.geo.On("Geocode", ctx, "233 Bay State Rd Boston MA 02215").Return(&geocoder.Result{
		Latitude: 42.35, Longitude: -71.10, FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		Street: "233 Bay State Rd", City: "Boston", StateCode: "MA", Zipcode: "02215", Country: "US",
	}, nil)
	f.bootcamps.On("Create", ctx, mock.AnythingOfType("*models.Bootcamp")).Return(nil)

	b, err := f.service.Create(ctx, publisher, validBootcampInput())
	require.NoError(t, err)

	assert.Equal(t, "devworks_bootcamp", b.Slug)
	assert.Equal(t, "pub-1", b.UserID)
	assert.Equal(t, models.DefaultPhoto, b.Photo)
	assert.Equal(t, models.Location{
		Type: "Point", Coordinates: []float64{-71.10, 42.35}, FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		Street: "233 Bay State Rd", City: "Boston", State: "MA", Zipcode: "02215", Country: "US",
	}, b.Location)
	f.bootcamps.AssertExpectations(t)
}

func TestBootcampService_CreateRules(t *testing.T) {
	ctx := context.Background()

	t.Run("publisher already owns a bootcamp", func(t *testing.T) {
		f := newBootcampFixture(1 << 20)
		f.bootcamps.On("CountByUser", ctx, "pub-1").Return(int64(1), nil)
		_, err := f.service.Create(ctx, &models.User{ID: "pub-1", Role: models.RolePublisher}, validBootcampInput())
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
		f.bootcamps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("address cannot be geocoded", func(t *testing.T) {
		f := newBootcampFixture(1 << 20)
		f.geo.On("Geocode", ctx, mock.Anything).Return(nil, geocoder.ErrNoResult)
		_, err := f.service.Create(ctx, &models.User{ID: "admin", Role: models.RoleAdmin}, validBootcampInput())
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
		assert.Equal(t, "Could not geocode address", err.Error())
	})

	t.Run("unknown career", func(t *testing.T) {
		f := newBootcampFixture(1 << 20)
		f.geo.On("Geocode", ctx, mock.Anything).Return(&geocoder.Result{Latitude: 1, Longitude: 1}, nil)
		in := validBootcampInput()
		in.Careers = &[]string{"Astrology"}
		_, err := f.service.Create(ctx, &models.User{ID: "admin", Role: models.RoleAdmin}, in)
		assert.ErrorContains(t, err, "careers[0] must be one of")
	})
}

func TestBootcampService_UpdateAndDeleteOwnership(t *testing.T) {
	ctx := context.Background()
	stored := func() *models.Bootcamp {
		return &models.Bootcamp{ID: "b1", Name: "Devworks", Description: "d", Careers: []string{"Other"}, UserID: "owner"}
	}

	f := newBootcampFixture(1 << 20)
	f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil).Once()
	_, err := f.service.Update(ctx, &models.User{ID: "stranger", Role: models.RolePublisher}, "b1", services.BootcampInput{Name: strPtr("Mine now")})
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil).Once()
	f.bootcamps.On("Update", ctx, mock.AnythingOfType("*models.Bootcamp")).Return(nil).Once()
	updated, err := f.service.Update(ctx, &models.User{ID: "root", Role: models.RoleAdmin}, "b1", services.BootcampInput{Name: strPtr("Renamed Camp")})
	require.NoError(t, err)
	assert.Equal(t, "renamed_camp", updated.Slug)
	f.geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)

	f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil).Once()
	err = f.service.Delete(ctx, &models.User{ID: "stranger", Role: models.RolePublisher}, "b1")
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))

	f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil).Once()
	f.courses.On("DeleteByBootcamp", ctx, "b1").Return(nil).Once()
	f.reviews.On("DeleteByBootcamp", ctx, "b1").Return(nil).Once()
	f.bootcamps.On("Delete", ctx, "b1").Return(nil).Once()
	require.NoError(t, f.service.Delete(ctx, &models.User{ID: "owner", Role: models.RolePublisher}, "b1"))

	f.bootcamps.On("GetByID", ctx, "missing").Return(nil, models.ErrNotFound).Once()
	_, err = f.service.Get(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))

	f.bootcamps.AssertExpectations(t)
	f.courses.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
}

func TestBootcampService_WithinRadius(t *testing.T) {
	ctx := context.Background()
	f := newBootcampFixture(1 << 20)
	f.geo.On("Geocode", ctx, "02118").Return(&geocoder.Result{Latitude: 42.34, Longitude: -71.07}, nil)
	distance, miles, km := 10.0, 3963.2, 6378.1
	f.bootcamps.On("FindWithinRadius", ctx, -71.07, 42.34, distance/miles).Return([]models.Bootcamp{{ID: "b1"}}, nil).Once()
	f.bootcamps.On("FindWithinRadius", ctx, -71.07, 42.34, distance/km).Return(nil, nil).Once()

	got, err := f.service.WithinRadius(ctx, "02118", 10, "mi")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = f.service.WithinRadius(ctx, "02118", 10, "km")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = f.service.WithinRadius(ctx, "02118", 10, "leagues")
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
	f.bootcamps.AssertExpectations(t)
}

func TestBootcampService_UploadPhoto(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "owner", Role: models.RolePublisher}
	stored := func() *models.Bootcamp {
		return &models.Bootcamp{ID: "b1", Name: "Devworks", Description: "d", Careers: []string{"Other"}, UserID: "owner", Photo: models.DefaultPhoto}
	}

	t.Run("stores a sniffed image", func(t *testing.T) {
		f := newBootcampFixture(1 << 20)
		f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil)
		f.photos.On("Save", ctx, "photo_b1.png", int64(len(pngBytes)), "image/png").Return(nil).Once()
		f.bootcamps.On("Update", ctx, mock.MatchedBy(func(b *models.Bootcamp) bool { return b.Photo == "photo_b1.png" })).Return(nil).Once()

		name, err := f.service.UploadPhoto(ctx, owner, "b1", fileHeader(t, "camp.png", "image/png", pngBytes))
		require.NoError(t, err)
		assert.Equal(t, "photo_b1.png", name)
		assert.Equal(t, pngBytes, f.photos.saved)
		f.photos.AssertExpectations(t)
		f.bootcamps.AssertExpectations(t)
	})

	rejected := map[string]*multipart.FileHeader{
		"missing file":       nil,
		"declared non-image": fileHeader(t, "notes.txt", "text/plain", []byte("hello")),
		"disguised text":     fileHeader(t, "fake.png", "image/png", []byte("just some text pretending")),
		"too large":          fileHeader(t, "big.png", "image/png", append(append([]byte{}, pngBytes...), make([]byte, 64)...)),
	}
	for name, fh := range rejected {
		t.Run(name, func(t *testing.T) {
			f := newBootcampFixture(int64(len(pngBytes)))
			f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil)

			_, err := f.service.UploadPhoto(ctx, owner, "b1", fh)
			assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
			f.photos.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			assert.Nil(t, f.photos.saved)
		})
	}

	t.Run("non owner", func(t *testing.T) {
		f := newBootcampFixture(1 << 20)
		f.bootcamps.On("GetByID", ctx, "b1").Return(stored(), nil)
		_, err := f.service.UploadPhoto(ctx, &models.User{ID: "x", Role: models.RolePublisher}, "b1", fileHeader(t, "a.png", "image/png", pngBytes))
		assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
	})
}
