// Package resolution computes which sub-skills an employee must be graded on
// by walking User -> Profile -> Technologies -> Skills -> Subskills.
package resolution

import (
	"sort"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
)

type Scope struct {
	UserID       int64             `json:"userId"`
	Profile      *catalog.Profile  `json:"profile,omitempty"`
	Technologies []TechnologyScope `json:"technologies"`
}

type TechnologyScope struct {
	Technology    catalog.Technology `json:"technology"`
	Skills        []SkillScope       `json:"skills"`
	SubskillCount int                `json:"subskillCount"`
}

type SkillScope struct {
	Skill     catalog.Skill      `json:"skill"`
	Subskills []catalog.Subskill `json:"subskills"`
}

// Resolve is a pure query over d. A skill reachable through several
// technologies is listed under each of them; within one technology it is
// listed once. Inactive or dangling records along the chain are skipped.
func Resolve(d dataset.Dataset, userID int64) Scope {
	scope := Scope{UserID: userID, Technologies: []TechnologyScope{}}

	users := catalog.NewIndex(d.Users)
	if _, ok := catalog.Active(users, userID); !ok {
		return scope
	}

	profileID, ok := ProfileOf(d, userID)
	if !ok {
		return scope
	}
	profile, ok := catalog.Active(catalog.NewIndex(d.Profiles), profileID)
	if !ok {
		return scope
	}
	scope.Profile = &profile

	techs := catalog.NewIndex(d.Technologies)
	skills := catalog.NewIndex(d.Skills)

	techIDs := make([]int64, 0)
	seenTech := map[int64]struct{}{}
	for _, tp := range d.TechnologyProfiles {
		if !tp.Active || tp.ProfileID != profileID {
			continue
		}
		if _, dup := seenTech[tp.TechnologyID]; dup {
			continue
		}
		if _, ok := catalog.Active(techs, tp.TechnologyID); !ok {
			continue
		}
		seenTech[tp.TechnologyID] = struct{}{}
		techIDs = append(techIDs, tp.TechnologyID)
	}
	sortIDs(techIDs)

	subsBySkill := activeSubskillsBySkill(d.Subskills)

	for _, techID := range techIDs {
		tech, _ := techs.Get(techID)
		ts := TechnologyScope{Technology: tech, Skills: []SkillScope{}}

		skillIDs := make([]int64, 0)
		seenSkill := map[int64]struct{}{}
		for _, m := range d.TechnologySkills {
			if !m.Active || m.TechnologyID != techID {
				continue
			}
			if _, dup := seenSkill[m.SkillID]; dup {
				continue
			}
			if _, ok := catalog.Active(skills, m.SkillID); !ok {
				continue
			}
			seenSkill[m.SkillID] = struct{}{}
			skillIDs = append(skillIDs, m.SkillID)
		}
		sortIDs(skillIDs)

		for _, skillID := range skillIDs {
			sk, _ := skills.Get(skillID)
			subs := subsBySkill[skillID]
			if subs == nil {
				subs = []catalog.Subskill{}
			}
			ts.Skills = append(ts.Skills, SkillScope{Skill: sk, Subskills: subs})
			ts.SubskillCount += len(subs)
		}
		scope.Technologies = append(scope.Technologies, ts)
	}

	return scope
}

// ProfileOf returns the profile of the user's first active Profile-User
// mapping (lowest id). The inline User.ProfileID is not consulted.
func ProfileOf(d dataset.Dataset, userID int64) (int64, bool) {
	var (
		best  int64
		found bool
		bestM int64
	)
	for _, pu := range d.ProfileUsers {
		if !pu.Active || pu.UserID != userID {
			continue
		}
		if !found || pu.ID < bestM {
			best, bestM, found = pu.ProfileID, pu.ID, true
		}
	}
	return best, found
}

func (s Scope) Empty() bool {
	return len(s.Technologies) == 0
}

// SubskillIDs returns every assignable sub-skill once, in first-seen order.
func (s Scope) SubskillIDs() []int64 {
	out := make([]int64, 0)
	seen := map[int64]struct{}{}
	for _, t := range s.Technologies {
		for _, sk := range t.Skills {
			for _, sub := range sk.Subskills {
				if _, dup := seen[sub.ID]; dup {
					continue
				}
				seen[sub.ID] = struct{}{}
				out = append(out, sub.ID)
			}
		}
	}
	return out
}

// Assignable is the number of distinct sub-skills in scope.
func (s Scope) Assignable() int {
	return len(s.SubskillIDs())
}

func (s Scope) Contains(subskillID int64) bool {
	for _, id := range s.SubskillIDs() {
		if id == subskillID {
			return true
		}
	}
	return false
}

func activeSubskillsBySkill(subs []catalog.Subskill) map[int64][]catalog.Subskill {
	out := map[int64][]catalog.Subskill{}
	for _, s := range subs {
		if !s.Active {
			continue
		}
		out[s.SkillID] = append(out[s.SkillID], s)
	}
	for k := range out {
		list := out[k]
		sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return out
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
