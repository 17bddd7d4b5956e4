package handlers

import (
	"devcamper/internal/apperror"
	"devcamper/internal/query"

	"github.com/gofiber/fiber/v2"
)

func sendData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// sendList writes one page of a list request. When the request selected
// fields the items are projected down to them plus the keep keys.
func sendList[T any](c *fiber.Ctx, res *query.Result[T], keep ...string) error {
	var data any = res.Items
	if len(res.Select) > 0 {
		projected, err := query.Project(res.Items, res.Select, keep...)
		if err != nil {
			return err
		}
		data = projected
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      res.Count,
		"pagination": res.Pagination,
		"data":       data,
	})
}

// parseListQuery reads the raw query string into a validated list query.
func parseListQuery(c *fiber.Ctx, schema query.Schema) (query.Query, error) {
	params := make(map[string][]string)
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		params[key] = append(params[key], string(v))
	})
	return query.Parse(params, schema)
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Wrap(err, fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}
