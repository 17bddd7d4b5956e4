package repositories

import (
	"context"
	"database/sql"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"gorm.io/gorm"
)

var courseColumns = map[string]string{
	"id":                   "id",
	"title":                "title",
	"description":          "description",
	"weeks":                "weeks",
	"tuition":              "tuition",
	"minimumSkill":         "minimum_skill",
	"scholarshipAvailable": "scholarship_available",
	"bootcamp":             "bootcamp_id",
	"user":                 "user_id",
	"createdAt":            "created_at",
}

// GORMCourseRepository is a GORM implementation of CourseRepository.
type GORMCourseRepository struct {
	db *gorm.DB
}

func NewGORMCourseRepository(db *gorm.DB) *GORMCourseRepository {
	return &GORMCourseRepository{db: db}
}

func (r *GORMCourseRepository) Find(ctx context.Context, q query.Query) ([]models.Course, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&models.Course{}), q, courseColumns)
	if err != nil {
		return nil, err
	}
	var courses []models.Course
	if err := tx.Find(&courses).Error; err != nil {
		return nil, translateGORMError(err, "find courses")
	}
	return courses, nil
}

func (r *GORMCourseRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&n).Error; err != nil {
		return 0, translateGORMError(err, "count courses")
	}
	return n, nil
}

func (r *GORMCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var c models.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translateGORMError(err, "get course by id")
	}
	return &c, nil
}

func (r *GORMCourseRepository) FindByBootcamps(ctx context.Context, bootcampIDs []string) ([]models.Course, error) {
	if len(bootcampIDs) == 0 {
		return nil, nil
	}
	var courses []models.Course
	if err := r.db.WithContext(ctx).Where("bootcamp_id IN ?", bootcampIDs).Order("created_at").Find(&courses).Error; err != nil {
		return nil, translateGORMError(err, "find courses by bootcamps")
	}
	return courses, nil
}

func (r *GORMCourseRepository) Create(ctx context.Context, c *models.Course) error {
	if c.ID == "" {
		c.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return translateGORMError(err, "create course")
	}
	return nil
}

func (r *GORMCourseRepository) Update(ctx context.Context, c *models.Course) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return translateGORMError(err, "update course")
	}
	return nil
}

func (r *GORMCourseRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if res.Error != nil {
		return translateGORMError(res.Error, "delete course")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *GORMCourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Course{}, "bootcamp_id = ?", bootcampID).Error; err != nil {
		return translateGORMError(err, "delete courses of bootcamp")
	}
	return nil
}

func (r *GORMCourseRepository) AverageTuition(ctx context.Context, bootcampID string) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Model(&models.Course{}).
		Select("AVG(tuition)").
		Where("bootcamp_id = ?", bootcampID).
		Row().Scan(&avg)
	if err != nil {
		return nil, translateGORMError(err, "average tuition")
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
