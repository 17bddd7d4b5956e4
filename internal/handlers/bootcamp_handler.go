package handlers

import (
	"math"
	"strconv"

	"devcamper/internal/apperror"
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BootcampHandler handles HTTP requests for bootcamps.
type BootcampHandler struct {
	service *services.BootcampService
	protect fiber.Handler
}

// NewBootcampHandler creates a new BootcampHandler.
func NewBootcampHandler(service *services.BootcampService, protect fiber.Handler) *BootcampHandler {
	return &BootcampHandler{
		service: service,
		protect: protect,
	}
}

// RegisterRoutes registers the bootcamp routes with the Fiber app.
func (h *BootcampHandler) RegisterRoutes(router fiber.Router) {
	publishers := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	bootcampRoutes := router.Group("/bootcamps")
	bootcampRoutes.Get("/radius/:zipcode/:distance", h.HandleGetBootcampsInRadius)
	bootcampRoutes.Get("/", h.HandleGetBootcamps)
	bootcampRoutes.Get("/:id", h.HandleGetBootcamp)
	bootcampRoutes.Post("/", h.protect, publishers, h.HandleCreateBootcamp)
	bootcampRoutes.Put("/:id", h.protect, publishers, h.HandleUpdateBootcamp)
	bootcampRoutes.Delete("/:id", h.protect, publishers, h.HandleDeleteBootcamp)
	bootcampRoutes.Put("/:id/photo", h.protect, publishers, h.HandleUploadPhoto)
}

// HandleGetBootcamps lists bootcamps with filtering, selection, sorting and
// pagination taken from the query string.
func (h *BootcampHandler) HandleGetBootcamps(c *fiber.Ctx) error {
	q, err := parseListQuery(c, models.BootcampSchema)
	if err != nil {
		return err
	}
	res, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return sendList(c, res, "courses")
}

func (h *BootcampHandler) HandleGetBootcamp(c *fiber.Ctx) error {
	b, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, b)
}

func (h *BootcampHandler) HandleCreateBootcamp(c *fiber.Ctx) error {
	var in services.BootcampInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	b, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, b)
}

func (h *BootcampHandler) HandleUpdateBootcamp(c *fiber.Ctx) error {
	var in services.BootcampInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	b, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, b)
}

// HandleDeleteBootcamp removes a bootcamp together with its courses and reviews.
func (h *BootcampHandler) HandleDeleteBootcamp(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, fiber.Map{})
}

// HandleGetBootcampsInRadius lists bootcamps within distance of a zipcode.
// The unit query parameter is mi (default) or km.
func (h *BootcampHandler) HandleGetBootcampsInRadius(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil || distance < 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return apperror.BadRequest("Distance must be a non-negative number")
	}
	bootcamps, err := h.service.WithinRadius(c.UserContext(), c.Params("zipcode"), distance, c.Query("unit"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(bootcamps),
		"data":    bootcamps,
	})
}

// HandleUploadPhoto accepts a multipart upload in the file field.
func (h *BootcampHandler) HandleUploadPhoto(c *fiber.Ctx) error {
	// A missing form or field leaves file nil, which the service rejects.
	file, _ := c.FormFile("file")
	name, err := h.service.UploadPhoto(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), file)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, name)
}
