package dataset

import (
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
)

// Dataset is a point-in-time copy of every catalog and mapping table. The
// resolution and analytics code folds over it without touching storage.
type Dataset struct {
	Grades             []catalog.Grade
	Profiles           []catalog.Profile
	Technologies       []catalog.Technology
	Skills             []catalog.Skill
	Subskills          []catalog.Subskill
	Users              []catalog.User
	TechnologySkills   []mapping.TechnologySkill
	TechnologyProfiles []mapping.TechnologyProfile
	ProfileUsers       []mapping.ProfileUser
	SkillMaps          []mapping.SkillMap
}

func (d Dataset) ActiveUsers() []catalog.User {
	out := make([]catalog.User, 0, len(d.Users))
	for _, u := range d.Users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out
}

func (d Dataset) ActiveGrades() []catalog.Grade {
	out := make([]catalog.Grade, 0, len(d.Grades))
	for _, g := range d.Grades {
		if g.Active {
			out = append(out, g)
		}
	}
	catalog.SortGrades(out)
	return out
}

func (d Dataset) ActiveSkills() []catalog.Skill {
	out := make([]catalog.Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

// AssignmentsFor returns the user's active skill-grade assignments.
func (d Dataset) AssignmentsFor(userID int64) []mapping.SkillMap {
	out := make([]mapping.SkillMap, 0)
	for _, sm := range d.SkillMaps {
		if sm.Active && sm.UserID == userID {
			out = append(out, sm)
		}
	}
	return out
}

// ActiveAssignments returns every active skill-grade assignment.
func (d Dataset) ActiveAssignments() []mapping.SkillMap {
	out := make([]mapping.SkillMap, 0, len(d.SkillMaps))
	for _, sm := range d.SkillMaps {
		if sm.Active {
			out = append(out, sm)
		}
	}
	return out
}
