package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"cinda/internal/delivery/http/dto"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/pkg/response"
	"cinda/internal/usecase"
	ucauth "cinda/internal/usecase/auth"
)

type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

type registerRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	UserType string `json:"userType" validate:"required,usertype"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"omitempty,usertype"`
}

type socialLoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name"`
	Provider   string `json:"provider" validate:"notblank"`
	ProviderID string `json:"providerId" validate:"notblank"`
	UserType   string `json:"userType" validate:"omitempty,usertype"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{uc: uc, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/social-login", h.SocialLogin)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.UserType,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.startSession(c, res)
	return response.Created(c, response.MessageRegistered, authResponse(res))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.Login(c.Context(), ucauth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.UserType,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.startSession(c, res)
	return response.Success(c, fiber.StatusOK, response.MessageLoggedIn, authResponse(res))
}

func (h *AuthHandler) SocialLogin(c fiber.Ctx) error {
	var req socialLoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.SocialLogin(c.Context(), ucauth.SocialLoginInput{
		Email:      req.Email,
		Name:       req.Name,
		Provider:   req.Provider,
		ProviderID: req.ProviderID,
		Role:       req.UserType,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	h.startSession(c, res)
	return response.Success(c, fiber.StatusOK, response.MessageSocialLoggedIn, authResponse(res))
}

// Refresh reads the refresh token from the body, falling back to the bearer header.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}
	tok := req.RefreshToken
	if tok == "" {
		tok, _ = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if tok == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	access, refresh, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshTokenExpired):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
		case errors.Is(err, usecase.ErrInvalidRefreshToken):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageTokenRefreshed, dto.TokenResponse{Token: access, RefreshToken: refresh})
}

// Logout destroys the server-side session. Bearer tokens are stateless; the
// client discards them.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageLoggedOut, nil)
}

// startSession mirrors the identity into the deprecated cookie session.
func (h *AuthHandler) startSession(c fiber.Ctx, res usecase.AuthResult) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	if err := sess.Regenerate(); err != nil {
		h.logger.Warn("session regenerate failed", "rid", middleware.RequestID(c), "error", err)
		return
	}
	sess.Set(middleware.SessionUserIDKey, res.User.ID)
	sess.Set(middleware.SessionUserTypeKey, string(res.User.Role))
}

func authResponse(res usecase.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		User:         dto.NewUserSummary(res.User),
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusBadRequest, "User already exists", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid credentials", nil, err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
