package repositories

import (
	"context"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/query"

	"gorm.io/gorm"
)

var userColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Find returns one page of users matching q.
func (r *GORMUserRepository) Find(ctx context.Context, q query.Query) ([]models.User, error) {
	tx, err := applyQuery(r.db.WithContext(ctx).Model(&models.User{}), q, userColumns)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, translateGORMError(err, "find users")
	}
	return users, nil
}

func (r *GORMUserRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, translateGORMError(err, "count users")
	}
	return n, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateGORMError(err, "get user by id")
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateGORMError(err, "get user by email")
	}
	return &user, nil
}

func (r *GORMUserRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, translateGORMError(err, "get user by reset token")
	}
	return &user, nil
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateGORMError(err, "create user")
	}
	return nil
}

func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translateGORMError(err, "update user")
	}
	return nil
}

func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return translateGORMError(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
