package repositories

import (
	"context"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"gorm.io/gorm"
)

var bootcampColumns = map[string]string{
	"id":               "id",
	"name":             "name",
	"slug":             "slug",
	"description":      "description",
	"website":          "website",
	"phone":            "phone",
	"email":            "email",
	"careers":          "careers",
	"averageRating":    "average_rating",
	"averageCost":      "average_cost",
	"photo":            "photo",
	"housing":          "housing",
	"jobAssistance":    "job_assistance",
	"jobGuarantee":     "job_guarantee",
	"acceptGi":         "accept_gi",
	"user":             "user_id",
	"createdAt":        "created_at",
	"location.city":    "location_city",
	"location.state":   "location_state",
	"location.zipcode": "location_zipcode",
	"location.country": "location_country",
}

// GORMBootcampRepository is a GORM implementation of BootcampRepository.
type GORMBootcampRepository struct {
	db *gorm.DB
}

func NewGORMBootcampRepository(db *gorm.DB) *GORMBootcampRepository {
	return &GORMBootcampRepository{db: db}
}

func (r *GORMBootcampRepository) Find(ctx context.Context, q query.Query) ([]models.Bootcamp, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&models.Bootcamp{}), q, bootcampColumns)
	if err != nil {
		return nil, err
	}
	var bootcamps []models.Bootcamp
	if err := tx.Find(&bootcamps).Error; err != nil {
		return nil, translateGORMError(err, "find bootcamps")
	}
	return bootcamps, nil
}

func (r *GORMBootcampRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Bootcamp{}).Count(&n).Error; err != nil {
		return 0, translateGORMError(err, "count bootcamps")
	}
	return n, nil
}

func (r *GORMBootcampRepository) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var b models.Bootcamp
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translateGORMError(err, "get bootcamp by id")
	}
	return &b, nil
}

func (r *GORMBootcampRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Bootcamp, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var bootcamps []models.Bootcamp
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&bootcamps).Error; err != nil {
		return nil, translateGORMError(err, "get bootcamps by ids")
	}
	return bootcamps, nil
}

func (r *GORMBootcampRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Bootcamp{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, translateGORMError(err, "count bootcamps by user")
	}
	return n, nil
}

// FindWithinRadius loads every geocoded bootcamp and keeps those within radius.
// Relational stores have no spherical index here, so the distance test runs in Go.
func (r *GORMBootcampRepository) FindWithinRadius(ctx context.Context, lng, lat, radius float64) ([]models.Bootcamp, error) {
	var candidates []models.Bootcamp
	if err := r.db.WithContext(ctx).Where("location_type = ?", "Point").Find(&candidates).Error; err != nil {
		return nil, translateGORMError(err, "find bootcamps in radius")
	}
	out := make([]models.Bootcamp, 0, len(candidates))
	for _, b := range candidates {
		bLng, bLat, ok := b.Location.Point()
		if ok && angularDistance(lng, lat, bLng, bLat) <= radius {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *GORMBootcampRepository) Create(ctx context.Context, b *models.Bootcamp) error {
	if b.ID == "" {
		b.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return translateGORMError(err, "create bootcamp")
	}
	return nil
}

func (r *GORMBootcampRepository) Update(ctx context.Context, b *models.Bootcamp) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return translateGORMError(err, "update bootcamp")
	}
	return nil
}

func (r *GORMBootcampRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Bootcamp{}, "id = ?", id)
	if res.Error != nil {
		return translateGORMError(res.Error, "delete bootcamp")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GORMBootcampRepository) SetAverageCost(ctx context.Context, id string, value *float64) error {
	return r.setColumn(ctx, id, "average_cost", value)
}

func (r *GORMBootcampRepository) SetAverageRating(ctx context.Context, id string, value *float64) error {
	return r.setColumn(ctx, id, "average_rating", value)
}

func (r *GORMBootcampRepository) setColumn(ctx context.Context, id, column string, value *float64) error {
	res := r.db.WithContext(ctx).Model(&models.Bootcamp{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return translateGORMError(res.Error, "set "+column)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
