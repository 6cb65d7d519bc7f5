package handler

import (
	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/middleware"
	"cinda/internal/pkg/response"
)

func currentUserID(c fiber.Ctx) (string, error) {
	uid := middleware.UserID(c)
	if uid == "" {
		return "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return uid, nil
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
