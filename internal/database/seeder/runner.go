package seeder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skill-matrix/internal/repository"
)

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, s repository.Stores) error {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, sd := range r.Seeders {
		if sd == nil {
			continue
		}
		if err := sd.Run(ctx, s); err != nil {
			return fmt.Errorf("seed %s: %w", sd.Name(), err)
		}
		log.Info("seeder done", zap.String("seeder", sd.Name()))
	}
	return nil
}
