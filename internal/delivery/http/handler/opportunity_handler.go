package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/domain/opportunity"
	"cinda/internal/domain/user"
	"cinda/internal/pkg/response"
	ucopp "cinda/internal/usecase/opportunity"
)

type OpportunityUsecase interface {
	List(ctx context.Context, p ucopp.ListParams) ([]opportunity.Opportunity, error)
	Get(ctx context.Context, id string) (*opportunity.Opportunity, error)
	Apply(ctx context.Context, opportunityID, userID, coverLetter string) error
	Review(ctx context.Context, opportunityID string, reviewer user.Role, applicantID, status string) (opportunity.Application, error)
}

type OpportunityHandler struct {
	uc OpportunityUsecase
}

type applyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected pending"`
}

func NewOpportunityHandler(uc OpportunityUsecase) *OpportunityHandler {
	return &OpportunityHandler{uc: uc}
}

func (h *OpportunityHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/:id/apply", auth, h.Apply)
	r.Patch("/:id/applications/:userId", auth, middleware.RequireRole(user.RoleSponsor), h.Review)
}

func (h *OpportunityHandler) List(c fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), ucopp.ListParams{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	})
	if err != nil {
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.OpportunityListResponse{Opportunities: list, Total: len(list)})
}

func (h *OpportunityHandler) Get(c fiber.Ctx) error {
	opp, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapOpportunityError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, opp)
}

func (h *OpportunityHandler) Apply(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}

	if err := h.uc.Apply(c.Context(), c.Params("id"), userID, req.CoverLetter); err != nil {
		return mapOpportunityError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageApplied, nil)
}

func (h *OpportunityHandler) Review(c fiber.Ctx) error {
	var req reviewRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	app, err := h.uc.Review(c.Context(), c.Params("id"), middleware.UserType(c), c.Params("userId"), req.Status)
	if err != nil {
		return mapOpportunityError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageReviewed, app)
}

func mapOpportunityError(err error) error {
	var terr *opportunity.TransitionError
	switch {
	case errors.As(err, &terr):
		return middleware.NewAppError(fiber.StatusConflict, terr.Error(), fiber.Map{"from": terr.From, "to": terr.To}, err)
	case errors.Is(err, opportunity.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Opportunity not found", nil, err)
	case errors.Is(err, opportunity.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, opportunity.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusBadRequest, "Already applied to this opportunity", nil, err)
	case errors.Is(err, opportunity.ErrUnknownStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown application status", nil, err)
	case errors.Is(err, ucopp.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Access denied", nil, err)
	}
	return internalError(err)
}
