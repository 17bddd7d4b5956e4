package services_test

import (
	"context"
	"io"
	"time"

	"devcamper/internal/geocoder"
	"devcamper/internal/mailer"
	"devcamper/internal/models"
	"devcamper/internal/query"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Find(ctx context.Context, q query.Query) ([]models.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockBootcampRepository is a mock implementation of repositories.BootcampRepository
type MockBootcampRepository struct {
	mock.Mock
}

func (m *MockBootcampRepository) Find(ctx context.Context, q query.Query) ([]models.Bootcamp, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bootcamp), args.Error(1)
}

func (m *MockBootcampRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBootcampRepository) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bootcamp), args.Error(1)
}

func (m *MockBootcampRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Bootcamp, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bootcamp), args.Error(1)
}

func (m *MockBootcampRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBootcampRepository) FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]models.Bootcamp, error) {
	args := m.Called(ctx, lng, lat, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Bootcamp), args.Error(1)
}

func (m *MockBootcampRepository) Create(ctx context.Context, b *models.Bootcamp) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBootcampRepository) Update(ctx context.Context, b *models.Bootcamp) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBootcampRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBootcampRepository) SetAverageCost(ctx context.Context, id string, value *float64) error {
	return m.Called(ctx, id, value).Error(0)
}

func (m *MockBootcampRepository) SetAverageRating(ctx context.Context, id string, value *float64) error {
	return m.Called(ctx, id, value).Error(0)
}

// MockCourseRepository is a mock implementation of repositories.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Find(ctx context.Context, q query.Query) ([]models.Course, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCourseRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByBootcamps(ctx context.Context, ids []string) ([]models.Course, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCourseRepository) Create(ctx context.Context, c *models.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, c *models.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	return m.Called(ctx, bootcampID).Error(0)
}

func (m *MockCourseRepository) AverageTuition(ctx context.Context, bootcampID string) (*float64, error) {
	args := m.Called(ctx, bootcampID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockReviewRepository is a mock implementation of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Create(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, r *models.Review) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	return m.Called(ctx, bootcampID).Error(0)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, bootcampID string) (*float64, error) {
	args := m.Called(ctx, bootcampID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*geocoder.Result, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocoder.Result), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// MockPhotoStore records the bytes it is asked to save.
type MockPhotoStore struct {
	mock.Mock
	saved []byte
}

func (m *MockPhotoStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.saved = b
	return m.Called(ctx, name, size, contentType).Error(0)
}
