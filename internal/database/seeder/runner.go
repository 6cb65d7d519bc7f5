package seeder

import (
	"context"
	"fmt"
	"log/slog"
)

type Runner struct {
	Seeders []Seeder
	Logger  *slog.Logger
}

func (r Runner) Run(ctx context.Context, t Target) error {
	if t.Courses == nil || t.Opportunities == nil {
		return fmt.Errorf("incomplete seed target")
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		n, err := s.Run(ctx, t)
		if err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if n == 0 {
			log.Info("seed skipped, collection not empty", "seeder", s.Name())
			continue
		}
		log.Info("seeded", "seeder", s.Name(), "count", n)
	}
	return nil
}
