package handlers

import (
	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/query"
	"devcamper/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CourseHandler handles HTTP requests for courses.
type CourseHandler struct {
	service *services.CourseService
	protect fiber.Handler
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(service *services.CourseService, protect fiber.Handler) *CourseHandler {
	return &CourseHandler{
		service: service,
		protect: protect,
	}
}

// RegisterRoutes registers the course routes, including those nested under a bootcamp.
func (h *CourseHandler) RegisterRoutes(router fiber.Router) {
	publishers := middleware.Authorize(models.RolePublisher, models.RoleAdmin)

	router.Get("/bootcamps/:bootcampId/courses", h.HandleGetCourses)
	router.Post("/bootcamps/:bootcampId/courses", h.protect, publishers, h.HandleCreateCourse)

	courseRoutes := router.Group("/courses")
	courseRoutes.Get("/", h.HandleGetCourses)
	courseRoutes.Get("/:id", h.HandleGetCourse)
	courseRoutes.Put("/:id", h.protect, publishers, h.HandleUpdateCourse)
	courseRoutes.Delete("/:id", h.protect, publishers, h.HandleDeleteCourse)
}

// HandleGetCourses lists all courses, or only those of the bootcamp in the path.
func (h *CourseHandler) HandleGetCourses(c *fiber.Ctx) error {
	q, err := parseListQuery(c, models.CourseSchema)
	if err != nil {
		return err
	}

	var res *query.Result[models.Course]
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

func (h *CourseHandler) HandleGetCourse(c *fiber.Ctx) error {
	course, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, course)
}

func (h *CourseHandler) HandleCreateCourse(c *fiber.Ctx) error {
	var in services.CourseInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	course, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), c.Params("bootcampId"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusCreated, course)
}

func (h *CourseHandler) HandleUpdateCourse(c *fiber.Ctx) error {
	var in services.CourseInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	course, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, course)
}

func (h *CourseHandler) HandleDeleteCourse(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return err
	}
	return sendData(c, fiber.StatusOK, fiber.Map{})
}
