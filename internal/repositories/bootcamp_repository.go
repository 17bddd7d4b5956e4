package repositories

import (
	"context"

	"devcamper/internal/models"
	"devcamper/internal/query"
)

// BootcampRepository defines the interface for bootcamp data access.
type BootcampRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Bootcamp, error)
	CountAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Bootcamp, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Bootcamp, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// FindWithinRadius returns bootcamps within radius radians of the point.
	FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]models.Bootcamp, error)
	Create(ctx context.Context, bootcamp *models.Bootcamp) error
	Update(ctx context.Context, bootcamp *models.Bootcamp) error
	Delete(ctx context.Context, id string) error
	// SetAverageCost and SetAverageRating clear the field when value is nil.
	SetAverageCost(ctx context.Context, id string, value *float64) error
	SetAverageRating(ctx context.Context, id string, value *float64) error
}

// CourseRepository defines the interface for course data access.
type CourseRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Course, error)
	CountAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Course, error)
	FindByBootcamps(ctx context.Context, bootcampIDs []string) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) error
	// AverageTuition returns nil when the bootcamp has no courses.
	AverageTuition(ctx context.Context, bootcampID string) (*float64, error)
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.Review, error)
	CountAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) error
	AverageRating(ctx context.Context, bootcampID string) (*float64, error)
}

// Set bundles one implementation of every repository.
type Set struct {
	Users     UserRepository
	Bootcamps BootcampRepository
	Courses   CourseRepository
	Reviews   ReviewRepository
}
