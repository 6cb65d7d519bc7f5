package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/session"

	"cinda/internal/config"
	"cinda/internal/delivery/http/handler"
	"cinda/internal/delivery/http/middleware"
	"cinda/internal/delivery/http/routes"
	"cinda/internal/infrastructure/cache"
	"cinda/internal/pkg/validation"
	"cinda/internal/ws"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app over an already wired container.
func New(c *Container) *App {
	cfg := c.Config
	errMw := middleware.NewErrorMiddleware(c.Logger, cfg.App.Debug || cfg.App.IsDevelopment())

	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		StructValidator: validation.New(),
		ErrorHandler:    errMw.Handle,
	})

	registerGlobalMiddleware(f, c, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(errMw.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(c.Config.App.CORSOrigin),
		AllowCredentials: true,
	}))
	app.Use(session.New(sessionConfig(c)))
}

func sessionConfig(c *Container) session.Config {
	cfg := session.Config{
		IdleTimeout:    c.Config.Session.IdleTimeout,
		CookieSecure:   c.Config.Session.CookieSecure,
		CookieHTTPOnly: true,
	}
	if storage, err := cache.NewSessionStorage(c.Redis); err == nil {
		cfg.Storage = storage
	} else {
		c.Logger.Warn("session store falls back to process memory", "error", err)
	}
	return cfg
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(routes.Handlers{
		Health:       handler.NewHealthHandler(),
		Auth:         handler.NewAuthHandler(c.Auth, c.Logger),
		User:         handler.NewUserHandler(c.Users),
		Course:       handler.NewCourseHandler(c.Courses),
		Opportunity:  handler.NewOpportunityHandler(c.Opportunities),
		Mentorship:   handler.NewMentorshipHandler(c.Mentorships),
		Search:       handler.NewSearchHandler(c.Search),
		MentorshipWS: ws.NewHandler(c.Hub, authMw, c.Mentorships, c.Logger),
	}, authMw).Register(app)
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"http://localhost:3000"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
