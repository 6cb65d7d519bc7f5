package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/domain/user"
	"cinda/internal/pkg/response"
	ucuser "cinda/internal/usecase/user"
)

type UserUsecase interface {
	GetProfile(ctx context.Context, userID string) (ucuser.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in ucuser.UpdateProfileInput) (ucuser.Profile, error)
}

type UserHandler struct {
	uc UserUsecase
}

// Only the listed fields can change; anything else in the body is ignored.
type updateProfileRequest struct {
	Name           *string   `json:"name" validate:"omitempty,max=100"`
	Bio            *string   `json:"bio" validate:"omitempty,max=1000"`
	Location       *string   `json:"location" validate:"omitempty,max=200"`
	Website        *string   `json:"website" validate:"omitempty,url"`
	Specialization *[]string `json:"specialization" validate:"omitempty,max=20"`
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
}

func (h *UserHandler) GetProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		}
		return internalError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(prof.User, prof.EnrolledCourseCount))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	prof, err := h.uc.UpdateProfile(c.Context(), userID, ucuser.UpdateProfileInput{
		Name:           req.Name,
		Bio:            req.Bio,
		Location:       req.Location,
		Website:        req.Website,
		Specialization: req.Specialization,
	})
	if err != nil {
		switch {
		case errors.Is(err, ucuser.ErrNoFields):
			return middleware.NewAppError(fiber.StatusBadRequest, "No valid fields to update", nil, err)
		case errors.Is(err, ucuser.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		case errors.Is(err, user.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
		}
		return internalError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageProfileUpdated, dto.NewUserProfileResponse(prof.User, prof.EnrolledCourseCount))
}
