package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gym-backend/internal/identity"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError writes err as a dto.ErrorResponse. Internal details never
// reach the client; they are logged and sent to Sentry instead.
func respondError(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Message: apperr.PublicMessage(err),
	})
}

// ErrorHandler is the fiber app's fallback for errors no handler wrote.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
			message = "Internal server error"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: true, Message: message})
	}
	return respondError(c, err)
}

func parseID(c *fiber.Ctx, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperr.InvalidInput("invalid " + entity + " id")
	}
	return id, nil
}

func decodeBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperr.InvalidInput("Invalid request body")
	}
	return nil
}

func actor(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
