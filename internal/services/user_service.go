package services

import (
	"context"
	"strings"

	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/repositories"
	"devcamper/internal/validation"

	"go.uber.org/zap"
)

// UserInput is an admin's view of a user. Nil fields are left untouched on update.
type UserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// UserService lets admins manage accounts.
type UserService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger.Named("UserService")}
}

func (s *UserService) List(ctx context.Context, q query.Query) (*query.Result[models.User], error) {
	return query.Run[models.User](ctx, s.users, q)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No user with the id of %s", id)
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	u := &models.User{Role: models.RoleUser}
	if err := s.apply(u, in, true); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User created by admin", zap.String("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UserInput) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(u, in, false); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// apply merges in, hashing a new password, then validates the user.
func (s *UserService) apply(u *models.User, in UserInput, requirePassword bool) error {
	setString(&u.Name, in.Name)
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	setString(&u.Role, in.Role)

	if in.Password != nil || requirePassword {
		var raw string
		if in.Password != nil {
			raw = *in.Password
		}
		if err := validation.Check(passwordInput{Password: raw}); err != nil {
			return err
		}
		hashed, err := hashPassword(raw)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return validation.Check(u)
}
