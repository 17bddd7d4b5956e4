package handlers

import (
	"time"

	"devcamper/internal/middleware"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	protect      fiber.Handler
	cookieTTL    time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		protect:      middleware.Protect(authService),
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/logout", h.HandleLogout)
	authRoutes.Get("/me", h.protect, h.HandleMe)
	authRoutes.Put("/updatedetails", h.protect, h.HandleUpdateDetails)
	authRoutes.Put("/updatepassword", h.protect, h.HandleUpdatePassword)
	authRoutes.Post("/forgotpassword", h.HandleForgotPassword)
	authRoutes.Put("/resetpassword/:resettoken", h.HandleResetPassword)
}

// sendToken sets the session cookie and echoes the token in the body.
func (h *AuthHandler) sendToken(c *fiber.Ctx, status int, token string) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
	})
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	_, token, err := h.authService.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	_, token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

// HandleLogout overwrites the session cookie with one that expires at once.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
		Secure:   h.secureCookie,
	})
	return sendData(c, fiber.StatusOK, fiber.Map{})
}

func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

func (h *AuthHandler) HandleUpdateDetails(c *fiber.Ctx) error {
	var in services.UpdateDetailsInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.authService.UpdateDetails(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

// UpdatePasswordRequest represents the request body for a password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) HandleUpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	token, err := h.authService.UpdatePassword(c.UserContext(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}

// HandleForgotPassword emails a reset link pointing back at this API.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	resetURL := c.BaseURL() + "/api/v1/auth/resetpassword"
	if err := h.authService.ForgotPassword(c.UserContext(), req.Email, resetURL); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, "Email sent")
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	_, token, err := h.authService.ResetPassword(c.UserContext(), c.Params("resettoken"), req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, fiber.StatusOK, token)
}
