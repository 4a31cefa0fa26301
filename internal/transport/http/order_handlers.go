package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/order"
)

// createOrder обрабатывает POST /api/v1/orders.
func (s *Server) createOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	input := order.CreateOrderInput{
		CustomerID: req.CustomerID,
		Lines:      toLineInputs(req.Lines),
	}
	if req.OrderDate != nil {
		input.OrderDate = *req.OrderDate
	}

	created, err := s.orders.Create(c.Context(), input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(created))
}

// getOrder обрабатывает GET /api/v1/orders/:id.
func (s *Server) getOrder(c *fiber.Ctx) error {
	found, err := s.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toOrderResponse(found))
}

// listOrders обрабатывает GET /api/v1/orders.
// Поддерживает фильтры ?customer_id= и ?status=.
func (s *Server) listOrders(c *fiber.Ctx) error {
	var filter domain.OrderFilter
	if customerID := c.Query("customer_id"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if status := c.Query("status"); status != "" {
		orderStatus := domain.OrderStatus(status)
		filter.Status = &orderStatus
	}

	orders, err := s.orders.List(c.Context(), filter)
	if err != nil {
		return s.writeError(c, err)
	}

	result := make([]orderResponse, 0, len(orders))
	for _, found := range orders {
		result = append(result, toOrderResponse(found))
	}
	return c.JSON(result)
}

// updateOrder обрабатывает PUT /api/v1/orders/:id.
// Отсутствующее в теле поле означает «не менять».
func (s *Server) updateOrder(c *fiber.Ctx) error {
	var req updateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	var input order.UpdateOrderInput
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		input.Status = &status
	}
	if req.Lines != nil {
		lines := toLineInputs(*req.Lines)
		input.Lines = &lines
	}

	updated, err := s.orders.Update(c.Context(), c.Params("id"), input)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(toOrderResponse(updated))
}

// deleteOrder обрабатывает DELETE /api/v1/orders/:id.
func (s *Server) deleteOrder(c *fiber.Ctx) error {
	if err := s.orders.Delete(c.Context(), c.Params("id")); err != nil {
		return s.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toLineInputs(lines []orderLineRequest) []order.LineInput {
	result := make([]order.LineInput, 0, len(lines))
	for _, line := range lines {
		result = append(result, order.LineInput{
			ID:        line.ID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
		})
	}
	return result
}
