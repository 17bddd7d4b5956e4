package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"devcamper/internal/apperror"
	"devcamper/internal/events"
	"devcamper/internal/mailer"
	"devcamper/internal/models"
	"devcamper/internal/repositories"
	"devcamper/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 10 * time.Minute

var (
	errInvalidCredentials = apperror.Unauthenticated("Invalid credentials")
	errNotAuthorized      = apperror.Unauthenticated("Not authorized to access this route")
)

// dummyHash is compared against when the email is unknown so both login
// failures take the same time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("devcamper-unknown-user"), bcrypt.DefaultCost)
	return h
})

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// AuthService handles registration, sessions and password management.
type AuthService struct {
	users     repositories.UserRepository
	mailer    mailer.Mailer
	events    events.Publisher
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, m mailer.Mailer, pub events.Publisher, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		mailer:    m,
		events:    pub,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger.Named("AuthService"),
		now:       time.Now,
	}
}

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

// Register creates an account and signs the user in. Admins cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Check(in); err != nil {
		return nil, "", err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	user := &models.User{Name: in.Name, Email: in.Email, Role: in.Role, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", user.Role))
	events.Emit(ctx, s.events, s.logger, events.NewEvent(events.UserRegistered, user.ID, user.ID, ""))

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and returns a signed token. An unknown email
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperror.BadRequest("Please provide an email and password")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  user.ID,
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ResolveUser returns the user a valid token was issued to.
func (s *AuthService) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("Rejected token", zap.Error(err))
		return nil, errNotAuthorized
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errNotAuthorized
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInvalidID) {
			return nil, errNotAuthorized
		}
		return nil, err
	}
	return user, nil
}

// Me reloads the signed in user.
func (s *AuthService) Me(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "No user with the id of %s", id)
	}
	return user, nil
}

// UpdateDetailsInput carries the fields a user may change on their own account.
type UpdateDetailsInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *AuthService) UpdateDetails(ctx context.Context, user *models.User, in UpdateDetailsInput) (*models.User, error) {
	updated := *user
	if in.Name != nil {
		updated.Name = *in.Name
	}
	if in.Email != nil {
		updated.Email = strings.TrimSpace(*in.Email)
	}
	if err := validation.Check(updated); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

type passwordInput struct {
	Password string `json:"password" validate:"required,min=6"`
}

// UpdatePassword replaces the password after checking the current one and
// returns a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, user *models.User, current, next string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return "", apperror.Unauthenticated("Password is incorrect")
	}
	if err := validation.Check(passwordInput{Password: next}); err != nil {
		return "", err
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return "", err
	}
	updated := *user
	updated.Password = hashed
	if err := s.users.Update(ctx, &updated); err != nil {
		return "", err
	}
	return s.IssueToken(&updated)
}

// ForgotPassword stores a hashed single-use reset token and emails the raw
// token as part of a link under resetURLBase.
func (s *AuthService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return notFound(err, "There is no user with that email")
	}

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	expire := s.now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashResetToken(raw)
	user.ResetPasswordExpire = &expire
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Password reset token",
		Text: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to: \n\n" + strings.TrimRight(resetURLBase, "/") + "/" + raw,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("Reset email failed", zap.String("user_id", user.ID), zap.Error(err))
		user.ResetPasswordToken = ""
		user.ResetPasswordExpire = nil
		if clearErr := s.users.Update(ctx, user); clearErr != nil {
			s.logger.Error("Failed to clear reset token", zap.String("user_id", user.ID), zap.Error(clearErr))
		}
		return apperror.Internal(err, "Email could not be sent")
	}
	return nil
}

// ResetPassword sets a new password when rawToken matches an unexpired reset
// token. The token cannot be used twice.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password string) (*models.User, string, error) {
	user, err := s.users.GetByResetToken(ctx, hashResetToken(rawToken), s.now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", apperror.BadRequest("Invalid token")
		}
		return nil, "", err
	}
	if err := validation.Check(passwordInput{Password: password}); err != nil {
		return nil, "", err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.Password = hashed
	user.ResetPasswordToken = ""
	user.ResetPasswordExpire = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
