package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/pkg/response"
	ucsearch "cinda/internal/usecase/search"
)

type SearchUsecase interface {
	Search(ctx context.Context, p ucsearch.Params) (ucsearch.Result, error)
}

type SearchHandler struct {
	uc SearchUsecase
}

func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

func (h *SearchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.Search)
}

func (h *SearchHandler) Search(c fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", ucsearch.DefaultLimit)
	if err != nil {
		return err
	}

	res, err := h.uc.Search(c.Context(), ucsearch.Params{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, ucsearch.ErrQueryRequired):
			return middleware.NewAppError(fiber.StatusBadRequest, "Search query is required", nil, err)
		case errors.Is(err, ucsearch.ErrInvalidCategory):
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid search category", nil, err)
		}
		return internalError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSearchResponse(res))
}

func queryInt(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key, nil, err)
	}
	return n, nil
}
