package seeder

import (
	"context"
	"strings"
	"time"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/repository"
)

const seedActor = "system"

// GradesSeeder creates the default L1..L5 ladder. Levels that already have an
// active grade are left alone.
type GradesSeeder struct{}

func (GradesSeeder) Name() string { return "grades" }

func (GradesSeeder) Run(ctx context.Context, s repository.Stores) error {
	existing, err := s.Grades.List(ctx)
	if err != nil {
		return err
	}
	have := map[string]bool{}
	for _, g := range existing {
		if g.Active {
			have[strings.ToUpper(strings.TrimSpace(g.Level))] = true
		}
	}

	items := []struct {
		Level string
		Title string
	}{
		{Level: "L1", Title: "Junior"},
		{Level: "L2", Title: "Intermediate"},
		{Level: "L3", Title: "Senior"},
		{Level: "L4", Title: "Lead"},
		{Level: "L5", Title: "Principal"},
	}

	for _, it := range items {
		if have[it.Level] {
			continue
		}
		g := catalog.Grade{Title: it.Title, Level: it.Level, Active: true}
		g.Touch(nil, seedActor, time.Now())
		if _, err := s.Grades.Create(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
