package main

import (
	"context"
	"log"
	"os"
	"time"

	"cinda/internal/app"
	"cinda/internal/config"
	"cinda/internal/database/seeder"
	"cinda/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.New(logger.Options{Production: cfg.App.IsProduction(), Debug: cfg.App.Debug})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, lg)
	if err != nil {
		lg.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := c.Close(); err != nil {
			lg.Error("cleanup error", "error", err)
		}
	}()

	runner := seeder.Runner{Seeders: seeder.Defaults(time.Now()), Logger: lg.With("component", "seeder")}
	if err := runner.Run(ctx, seeder.Target{Courses: c.Repos.Courses, Opportunities: c.Repos.Opportunities}); err != nil {
		lg.Error("seed failed", "error", err)
		return
	}
	lg.Info("seed complete", "store", cfg.Store.Driver)
}
