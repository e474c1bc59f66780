package seeder

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
)

type Runner struct {
	Seeders []Seeder
	Logger  arbor.ILogger
}

func (r Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = arbor.NewLogger()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Info().Str("seeder", s.Name()).Msg("seeder applied")
	}
	return nil
}
