package analytics

import (
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
)

type CategoryCount struct {
	Category catalog.Category `json:"type"`
	Count    int              `json:"count"`
}

// CatalogOverview is the dashboard head: active records per catalog and the
// technology mix by category.
type CatalogOverview struct {
	Technologies int             `json:"totalTechnologies"`
	Skills       int             `json:"totalSkills"`
	Subskills    int             `json:"totalSubskills"`
	Profiles     int             `json:"totalProfiles"`
	Grades       int             `json:"totalGrades"`
	Employees    int             `json:"totalEmployees"`
	ByCategory   []CategoryCount `json:"technologiesByType"`
}

// Overview counts active records only. ByCategory holds one bucket per known
// category in catalog order, zero counts included.
func Overview(d dataset.Dataset) CatalogOverview {
	perCategory := make(map[catalog.Category]int, len(catalog.Categories))
	techs := 0
	for _, t := range d.Technologies {
		if !t.Active {
			continue
		}
		techs++
		perCategory[t.Category]++
	}

	out := CatalogOverview{
		Technologies: techs,
		Skills:       len(d.ActiveSkills()),
		Grades:       len(d.ActiveGrades()),
		Employees:    len(d.ActiveUsers()),
		ByCategory:   make([]CategoryCount, 0, len(catalog.Categories)),
	}
	for _, s := range d.Subskills {
		if s.Active {
			out.Subskills++
		}
	}
	for _, p := range d.Profiles {
		if p.Active {
			out.Profiles++
		}
	}
	for _, c := range catalog.Categories {
		out.ByCategory = append(out.ByCategory, CategoryCount{Category: c, Count: perCategory[c]})
	}
	return out
}
