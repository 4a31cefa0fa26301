package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/service/customer"
)

// createCustomer обрабатывает POST /api/v1/customers.
func (s *Server) createCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	created, err := s.customers.Create(c.Context(), customer.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(created))
}

// getCustomer обрабатывает GET /api/v1/customers/:id.
func (s *Server) getCustomer(c *fiber.Ctx) error {
	found, err := s.customers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toCustomerResponse(found))
}

// listCustomers обрабатывает GET /api/v1/customers.
func (s *Server) listCustomers(c *fiber.Ctx) error {
	customers, err := s.customers.List(c.Context())
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]customerResponse, 0, len(customers))
	for _, found := range customers {
		result = append(result, toCustomerResponse(found))
	}
	return c.JSON(result)
}

// updateCustomer обрабатывает PUT /api/v1/customers/:id.
func (s *Server) updateCustomer(c *fiber.Ctx) error {
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	updated, err := s.customers.Update(c.Context(), c.Params("id"), customer.UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		TaxID:    req.TaxID,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toCustomerResponse(updated))
}

// deleteCustomer обрабатывает DELETE /api/v1/customers/:id.
func (s *Server) deleteCustomer(c *fiber.Ctx) error {
	if err := s.customers.Delete(c.Context(), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// loginCustomer обрабатывает POST /api/v1/customers/login.
func (s *Server) loginCustomer(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	authenticated, err := s.customers.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toCustomerResponse(authenticated))
}
