package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"

	"cinda/internal/domain/mentorship"
	"cinda/internal/pkg/jwt"
)

// Authenticator validates an access token.
type Authenticator interface {
	Authenticate(token string) (jwt.Claims, error)
}

// RoomGuard returns the mentorship if actorID participates in it.
type RoomGuard interface {
	Get(ctx context.Context, id, actorID string) (*mentorship.Mentorship, error)
}

type Handler struct {
	hub    *Hub
	auth   Authenticator
	guard  RoomGuard
	logger *slog.Logger
}

func NewHandler(hub *Hub, auth Authenticator, guard RoomGuard, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hub: hub, auth: auth, guard: guard, logger: logger.With("component", "ws")}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleMentorshipWS joins the caller to the room of mentorship :id. Browsers
// cannot set headers on the upgrade, so the access token comes in ?token=.
func (h *Handler) HandleMentorshipWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "No token, authorization denied")
	}
	claims, err := h.auth.Authenticate(token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Token is not valid")
	}

	room := c.Params("id")
	if _, err := h.guard.Get(c.Context(), room, claims.UserID); err != nil {
		switch {
		case errors.Is(err, mentorship.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Mentorship not found")
		case errors.Is(err, mentorship.ErrNotParticipant):
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return err
	}

	userID := claims.UserID
	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("upgrade failed", "room", room, "error", err)
			return
		}

		client := NewClient(h.hub, conn, room, userID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
