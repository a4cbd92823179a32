package repository

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/mapping"
)

// LoadDataset reads every table concurrently into one snapshot. The first
// failing read cancels the rest.
func LoadDataset(ctx context.Context, s Stores) (dataset.Dataset, error) {
	var d dataset.Dataset
	g, ctx := errgroup.WithContext(ctx)

	load[catalog.Grade](ctx, g, "grades", s.Grades, &d.Grades)
	load[catalog.Profile](ctx, g, "profiles", s.Profiles, &d.Profiles)
	load[catalog.Technology](ctx, g, "technologies", s.Technologies, &d.Technologies)
	load[catalog.Skill](ctx, g, "skills", s.Skills, &d.Skills)
	load[catalog.Subskill](ctx, g, "subskills", s.Subskills, &d.Subskills)
	load[catalog.User](ctx, g, "users", s.Users, &d.Users)
	load[mapping.TechnologySkill](ctx, g, "technology skills", s.TechnologySkills, &d.TechnologySkills)
	load[mapping.TechnologyProfile](ctx, g, "technology profiles", s.TechnologyProfiles, &d.TechnologyProfiles)
	load[mapping.ProfileUser](ctx, g, "profile users", s.ProfileUsers, &d.ProfileUsers)
	load[mapping.SkillMap](ctx, g, "skill maps", s.SkillMaps, &d.SkillMaps)

	if err := g.Wait(); err != nil {
		return dataset.Dataset{}, err
	}
	return d, nil
}

type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

func load[T any](ctx context.Context, g *errgroup.Group, name string, s lister[T], dst *[]T) {
	g.Go(func() error {
		rows, err := s.List(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		*dst = rows
		return nil
	})
}
