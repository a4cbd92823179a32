package seeder

import (
	"context"

	"skill-matrix/internal/repository"
)

// Seeder brings one slice of reference data into the stores. Running it twice
// must not create duplicates.
type Seeder interface {
	Name() string
	Run(ctx context.Context, s repository.Stores) error
}
