package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

// ok responde 200 con el sobre {success, data}.
func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(dto.OK(data))
}

// okTotal responde 200 con datos y total de página.
func okTotal(c *fiber.Ctx, data interface{}, total int) error {
	return c.JSON(dto.OKTotal(data, total))
}

// created responde 201 con el sobre {success, data}.
func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(dto.OK(data))
}

// fail responde con el sobre de error y el status dado.
func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.Fail(code, message))
}

// failErr mapea errores de dominio a status HTTP. Los errores no reconocidos
// responden 500 sin filtrar detalles internos.
func failErr(c *fiber.Ctx, err error) error {
	if lerr, ok := domain.AsLicenseError(err); ok {
		return fail(c, fiber.StatusPaymentRequired, "LICENSE_BLOCKED", lerr.Reason)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe")
	case errors.Is(err, domain.ErrAlreadyReceived):
		return fail(c, fiber.StatusConflict, "ALREADY_RECEIVED", "la compra ya fue recibida")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", "el estado del recurso no permite la operación")
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente")
	case errors.Is(err, domain.ErrSessionOpen):
		return fail(c, fiber.StatusConflict, "SESSION_OPEN", "la sucursal ya tiene una sesión de caja abierta")
	case errors.Is(err, domain.ErrSessionClosed):
		return fail(c, fiber.StatusConflict, "SESSION_CLOSED", "la sesión de caja está cerrada")
	case errors.Is(err, domain.ErrInvalidJoinCode):
		return fail(c, fiber.StatusBadRequest, "INVALID_JOIN_CODE", "código de invitación inválido")
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "operación no permitida")
	default:
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
	}
}
