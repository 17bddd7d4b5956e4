package handlers

import (
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service *services.ReviewService
	protect fiber.Handler
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService, protect fiber.Handler) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		protect: protect,
	}
}

// RegisterRoutes registers the review routes, including those nested under a bootcamp.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewers := middleware.Authorize(models.RoleUser, models.RoleAdmin)

	router.Get("/bootcamps/:bootcampId/reviews", h.HandleGetReviews)
	router.Post("/bootcamps/:bootcampId/reviews", h.protect, reviewers, h.HandleCreateReview)

	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Get("/", h.HandleGetReviews)
	reviewRoutes.Get("/:id", h.HandleGetReview)
	reviewRoutes.Put("/:id", h.protect, reviewers, h.HandleUpdateReview)
	reviewRoutes.Delete("/:id", h.protect, reviewers, h.HandleDeleteReview)
}

func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	q, err := parseListQuery(c, models.ReviewSchema)
	if err != nil {
		return err
	}

	var res *query.Result[models.Review]
	if bootcampID := c.Params("bootcampId"); bootcampID != "" {
		res, err = h.service.ListByBootcamp(c.UserContext(), bootcampID, q)
	} else {
		res, err = h.service.List(c.UserContext(), q)
	}
	if err != nil {
		return err
	}
	return sendList(c, res, "bootcamp")
}

func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	review, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	review, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), c.Params("bootcampId"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, review)
}

func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	review, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, fiber.Map{})
}
