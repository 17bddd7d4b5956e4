package middleware

import (
	"context"
	"slices"
	"strings"

	"devcamper/internal/apperror"
	"devcamper/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	userLocalsKey = "user"
	// TokenCookie is the cookie the session token is delivered in.
	TokenCookie = "token"
)

// UserResolver turns a session token into the user it was issued to.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

// Protect requires a valid session token, read from the Authorization
// bearer header or the token cookie, and attaches the user to the request.
func Protect(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			token = c.Cookies(TokenCookie)
		}
		if token == "" || token == "none" {
			return apperror.Unauthenticated("Not authorized to access this route")
		}

		user, err := resolver.ResolveUser(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authorize only lets users holding one of roles through. It must run after Protect.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthenticated("Not authorized to access this route")
		}
		if !slices.Contains(roles, user.Role) {
			return apperror.Forbidden("User role %s is not authorized to access this route", user.Role)
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by Protect, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
