package repositories

import (
	"context"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/query"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Find(ctx context.Context, q query.Query) ([]models.User, error)
	CountAll(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetToken returns the user holding tokenHash whose reset window is still open at now.
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}
