package handlers

import (
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler exposes account management to admins.
type UserHandler struct {
	service *services.UserService
	protect fiber.Handler
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, protect fiber.Handler) *UserHandler {
	return &UserHandler{
		service: service,
		protect: protect,
	}
}

// RegisterRoutes registers the admin user routes. Every route requires an admin.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/auth/users", h.protect, middleware.Authorize(models.RoleAdmin))
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	q, err := parseListQuery(c, models.UserSchema)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return sendList(c, res)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, fiber.Map{})
}
