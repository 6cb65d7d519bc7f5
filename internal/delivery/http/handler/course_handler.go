package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/domain/course"
	"cinda/internal/pkg/response"
	uccourse "cinda/internal/usecase/course"
)

type CourseUsecase interface {
	List(ctx context.Context, p uccourse.ListParams) ([]course.Course, error)
	Get(ctx context.Context, id string) (*course.Course, error)
	Enroll(ctx context.Context, courseID, userID string) (*course.Course, error)
}

type CourseHandler struct {
	uc CourseUsecase
}

func NewCourseHandler(uc CourseUsecase) *CourseHandler {
	return &CourseHandler{uc: uc}
}

// RegisterRoutes mounts the public routes on r and the enrollment route behind auth.
func (h *CourseHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Post("/:id/enroll", auth, h.Enroll)
}

func (h *CourseHandler) List(c fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), uccourse.ListParams{
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CourseListResponse{Courses: list, Total: len(list)})
}

func (h *CourseHandler) Get(c fiber.Ctx) error {
	crs, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCourseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, crs)
}

func (h *CourseHandler) Enroll(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	crs, err := h.uc.Enroll(c.Context(), c.Params("id"), userID)
	if err != nil {
		return mapCourseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageEnrolled, dto.EnrollResponse{
		CourseID:         crs.ID,
		EnrolledStudents: crs.EnrolledStudents,
	})
}

func mapCourseError(err error) error {
	switch {
	case errors.Is(err, course.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, course.ErrAlreadyEnrolled):
		return middleware.NewAppError(fiber.StatusBadRequest, "Already enrolled in this course", nil, err)
	}
	return internalError(err)
}
