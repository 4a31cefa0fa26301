package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
)

// createProduct обрабатывает POST /api/v1/products.
func (s *Server) createProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	product, err := s.products.Create(c.Context(), catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// getProduct обрабатывает GET /api/v1/products/:id.
func (s *Server) getProduct(c *fiber.Ctx) error {
	product, err := s.products.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// listProducts обрабатывает GET /api/v1/products.
// Поддерживает фильтр ?category_id=.
func (s *Server) listProducts(c *fiber.Ctx) error {
	var filter domain.ProductFilter
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}

	products, err := s.products.List(c.Context(), filter)
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, toProductResponse(product))
	}
	return c.JSON(result)
}

// updateProduct обрабатывает PUT /api/v1/products/:id.
func (s *Server) updateProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	product, err := s.products.Update(c.Context(), c.Params("id"), catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// deleteProduct обрабатывает DELETE /api/v1/products/:id.
func (s *Server) deleteProduct(c *fiber.Ctx) error {
	if err := s.products.Delete(c.Context(), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
