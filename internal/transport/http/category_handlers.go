package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// createCategory обрабатывает POST /api/v1/categories.
func (s *Server) createCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	category, err := s.categories.Create(c.Context(), catalog.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(category))
}

// getCategory обрабатывает GET /api/v1/categories/:id.
func (s *Server) getCategory(c *fiber.Ctx) error {
	category, err := s.categories.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toCategoryResponse(category))
}

// listCategories обрабатывает GET /api/v1/categories.
func (s *Server) listCategories(c *fiber.Ctx) error {
	categories, err := s.categories.List(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, toCategoryResponse(category))
	}
	return c.JSON(result)
}

// updateCategory обрабатывает PUT /api/v1/categories/:id.
func (s *Server) updateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	category, err := s.categories.Update(c.Context(), c.Params("id"), catalog.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toCategoryResponse(category))
}

// deleteCategory обрабатывает DELETE /api/v1/categories/:id.
func (s *Server) deleteCategory(c *fiber.Ctx) error {
	if err := s.categories.Delete(c.Context(), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
