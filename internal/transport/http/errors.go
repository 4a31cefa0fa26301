package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// writeError отображает доменную ошибку в HTTP-ответ по её виду.
// Внутренние ошибки логируются и не раскрывают деталей клиенту.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)

	var status int
	switch kind {
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindConflict:
		status = fiber.StatusConflict
	case domain.KindInvalidInput:
		status = fiber.StatusBadRequest
	case domain.KindInvalidState, domain.KindInsufficientStock:
		status = fiber.StatusUnprocessableEntity
	case domain.KindUnauthenticated:
		status = fiber.StatusUnauthorized
	default:
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("internal error")
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:   string(domain.KindInternal),
			Message: "internal error",
		})
	}

	resp := errorResponse{
		Error:   string(kind),
		Message: err.Error(),
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		resp.Violations = validation.Violations
	}
	return c.Status(status).JSON(resp)
}

func badRequestBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Error:   string(domain.KindInvalidInput),
		Message: "invalid request body",
	})
}
