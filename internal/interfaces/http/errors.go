package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/auth"
	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/internal/domain"
)

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// writeError traduce errores de dominio y del proveedor de auth a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if code := auth.CodeOf(err); code != "" {
		return c.Status(authStatus(code)).JSON(dto.ErrorResponse{Code: code, Message: auth.Message(err)})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrRemoteDisabled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REMOTE_DISABLED", Message: err.Error()})
	case errors.Is(err, domain.ErrRemoteFetch), errors.Is(err, domain.ErrUploadFailed), errors.Is(err, domain.ErrMirrorWrite):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REMOTE_ERROR", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func authStatus(code string) int {
	switch code {
	case auth.CodeInvalidEmail, auth.CodeWeakPassword:
		return fiber.StatusBadRequest
	case auth.CodeEmailAlreadyInUse:
		return fiber.StatusConflict
	case auth.CodeTooManyRequests:
		return fiber.StatusTooManyRequests
	case auth.CodeNetworkFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusUnauthorized
	}
}
