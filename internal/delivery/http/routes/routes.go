package routes

import (
	"github.com/gofiber/fiber/v3"

	"cinda/internal/delivery/http/handler"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/ws"
)

type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Course       *handler.CourseHandler
	Opportunity  *handler.OpportunityHandler
	Mentorship   *handler.MentorshipHandler
	Search       *handler.SearchHandler
	MentorshipWS *ws.Handler
}

type Registry struct {
	h    Handlers
	auth *middleware.AuthMiddleware
}

func NewRegistry(h Handlers, auth *middleware.AuthMiddleware) *Registry {
	if h.Health == nil {
		h.Health = handler.NewHealthHandler()
	}
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	api := app.Group("/api")
	r.h.Health.RegisterRoutes(api)
	r.registerAPI(api)
}

func (r *Registry) registerAPI(api fiber.Router) {
	authMw := r.auth.Middleware()

	if r.h.Auth != nil {
		r.h.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.h.User != nil {
		r.h.User.RegisterRoutes(api.Group("/users", authMw))
	}
	if r.h.Course != nil {
		r.h.Course.RegisterRoutes(api.Group("/courses"), authMw)
	}
	if r.h.Opportunity != nil {
		r.h.Opportunity.RegisterRoutes(api.Group("/opportunities"), authMw)
	}
	if r.h.Mentorship != nil || r.h.MentorshipWS != nil {
		group := api.Group("/mentorships")
		// The socket authenticates with ?token= before the upgrade.
		if r.h.MentorshipWS != nil {
			group.Get("/:id/ws", r.h.MentorshipWS.HandleMentorshipWS)
		}
		if r.h.Mentorship != nil {
			r.h.Mentorship.RegisterRoutes(group.Group("", authMw))
		}
	}
	if r.h.Search != nil {
		r.h.Search.RegisterRoutes(api.Group("/search"))
	}
}
