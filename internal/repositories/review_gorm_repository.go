package repositories

import (
	"context"
	"database/sql"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"gorm.io/gorm"
)

var reviewColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"text":      "text",
	"rating":    "rating",
	"bootcamp":  "bootcamp_id",
	"user":      "user_id",
	"createdAt": "created_at",
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
// The (bootcamp_id, user_id) unique index enforces one review per user and bootcamp.
type GORMReviewRepository struct {
	db *gorm.DB
}

func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) Find(ctx context.Context, q query.Query) ([]models.Review, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&models.Review{}), q, reviewColumns)
	if err != nil {
		return nil, err
	}
	var reviews []models.Review
	if err := tx.Find(&reviews).Error; err != nil {
		return nil, translateGORMError(err, "find reviews")
	}
	return reviews, nil
}

func (r *GORMReviewRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&n).Error; err != nil {
		return 0, translateGORMError(err, "count reviews")
	}
	return n, nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		return nil, translateGORMError(err, "get review by id")
	}
	return &rv, nil
}

func (r *GORMReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		return translateGORMError(err, "create review")
	}
	return nil
}

func (r *GORMReviewRepository) Update(ctx context.Context, rv *models.Review) error {
	if err := r.db.WithContext(ctx).Save(rv).Error; err != nil {
		return translateGORMError(err, "update review")
	}
	return nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return translateGORMError(res.Error, "delete review")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GORMReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Review{}, "bootcamp_id = ?", bootcampID).Error; err != nil {
		return translateGORMError(err, "delete reviews of bootcamp")
	}
	return nil
}

func (r *GORMReviewRepository) AverageRating(ctx context.Context, bootcampID string) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(rating)").
		Where("bootcamp_id = ?", bootcampID).
		Row().Scan(&avg)
	if err != nil {
		return nil, translateGORMError(err, "average rating")
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
