package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/domain/mentorship"
	"cinda/internal/domain/user"
	"cinda/internal/pkg/response"
	ucmentorship "cinda/internal/usecase/mentorship"
)

type MentorshipUsecase interface {
	Create(ctx context.Context, menteeID string, in ucmentorship.CreateInput) (*mentorship.Mentorship, error)
	List(ctx context.Context, actorID string, role user.Role) ([]ucmentorship.Listing, error)
	Get(ctx context.Context, id, actorID string) (*mentorship.Mentorship, error)
	UpdateStatus(ctx context.Context, id, actorID, status string) (*mentorship.Mentorship, error)
	AddSession(ctx context.Context, id, actorID string, in ucmentorship.SessionInput) (*mentorship.Mentorship, error)
	CompleteSession(ctx context.Context, id, actorID string, index int, feedback string) (*mentorship.Mentorship, error)
	SendMessage(ctx context.Context, id, actorID, content string) (mentorship.Message, error)
}

type MentorshipHandler struct {
	uc MentorshipUsecase
}

type createMentorshipRequest struct {
	MentorID        string   `json:"mentorId" validate:"notblank"`
	Specialties     []string `json:"specialties" validate:"max=20"`
	Bio             string   `json:"bio" validate:"max=2000"`
	YearsExperience int      `json:"yearsExperience" validate:"gte=0,lte=80"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"notblank"`
}

type addSessionRequest struct {
	Title         string    `json:"title" validate:"notblank"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Duration      int       `json:"duration" validate:"gte=0,lte=1440"`
	Notes         string    `json:"notes" validate:"max=2000"`
}

type completeSessionRequest struct {
	Feedback string `json:"feedback" validate:"max=5000"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"notblank,max=5000"`
}

func NewMentorshipHandler(uc MentorshipUsecase) *MentorshipHandler {
	return &MentorshipHandler{uc: uc}
}

// RegisterRoutes expects r to be behind the auth middleware.
func (h *MentorshipHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/:id", h.Get)
	r.Patch("/:id/status", h.UpdateStatus)
	r.Post("/:id/sessions", h.AddSession)
	r.Post("/:id/sessions/:index/complete", h.CompleteSession)
	r.Post("/:id/messages", h.SendMessage)
}

func (h *MentorshipHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	list, err := h.uc.List(c.Context(), userID, middleware.UserType(c))
	if err != nil {
		return internalError(err)
	}
	items := make([]dto.MentorshipListItem, 0, len(list))
	for _, l := range list {
		items = append(items, dto.NewMentorshipListItem(l.Mentorship, l.Mentor, l.Mentee))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MentorshipListResponse{Mentorships: items, Total: len(items)})
}

func (h *MentorshipHandler) Create(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createMentorshipRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	m, err := h.uc.Create(c.Context(), userID, ucmentorship.CreateInput{
		MentorID:        req.MentorID,
		Specialties:     req.Specialties,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
	})
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Created(c, response.MessageCreated, m)
}

func (h *MentorshipHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	m, err := h.uc.Get(c.Context(), c.Params("id"), userID)
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, m)
}

func (h *MentorshipHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	m, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), userID, req.Status)
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, m)
}

func (h *MentorshipHandler) AddSession(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req addSessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	m, err := h.uc.AddSession(c.Context(), c.Params("id"), userID, ucmentorship.SessionInput{
		Title:         req.Title,
		ScheduledDate: req.ScheduledDate,
		Duration:      req.Duration,
		Notes:         req.Notes,
	})
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Created(c, response.MessageCreated, m)
}

func (h *MentorshipHandler) CompleteSession(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid session index", nil, err)
	}

	var req completeSessionRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}

	m, err := h.uc.CompleteSession(c.Context(), c.Params("id"), userID, index, req.Feedback)
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, m)
}

func (h *MentorshipHandler) SendMessage(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	msg, err := h.uc.SendMessage(c.Context(), c.Params("id"), userID, req.Content)
	if err != nil {
		return mapMentorshipError(err)
	}
	return response.Created(c, response.MessageCreated, msg)
}

func mapMentorshipError(err error) error {
	var terr *mentorship.TransitionError
	switch {
	case errors.As(err, &terr):
		return middleware.NewAppError(fiber.StatusConflict, terr.Error(), fiber.Map{"from": terr.From, "to": terr.To}, err)
	case errors.Is(err, mentorship.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Mentorship not found", nil, err)
	case errors.Is(err, ucmentorship.ErrMentorNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Mentor not found", nil, err)
	case errors.Is(err, mentorship.ErrNotParticipant),
		errors.Is(err, mentorship.ErrNotMentor):
		return middleware.NewAppError(fiber.StatusForbidden, "Access denied", nil, err)
	case errors.Is(err, mentorship.ErrSessionsClosed),
		errors.Is(err, mentorship.ErrNotActive),
		errors.Is(err, mentorship.ErrSessionAlreadyCompleted):
		return middleware.NewAppError(fiber.StatusConflict, err.Error(), nil, err)
	case errors.Is(err, mentorship.ErrSessionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Session not found", nil, err)
	case errors.Is(err, ucmentorship.ErrNotAMentor),
		errors.Is(err, mentorship.ErrSelfMentorship),
		errors.Is(err, mentorship.ErrUnknownStatus),
		errors.Is(err, mentorship.ErrEmptyMessage),
		errors.Is(err, ucmentorship.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	return internalError(err)
}
