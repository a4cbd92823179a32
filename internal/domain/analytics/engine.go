// Package analytics derives read-only statistics from a dataset snapshot.
// Nothing here keeps state; dangling references count as absent.
package analytics

import (
	"math"
	"sort"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

const topSkillCount = 3

// seniorOrdinal is the lowest level ordinal counted as senior (L3).
const seniorOrdinal = 3

type UserStats struct {
	UserID       int64   `json:"userId"`
	AverageGrade Average `json:"averageGrade"`
	Average      string  `json:"average"`
	SkillsGraded int     `json:"skillsGraded"`
	Assignable   int     `json:"assignable"`
	Progress     float64 `json:"progress"`
	Technologies int     `json:"technologies"`
}

type SkillCoverage struct {
	SkillID       int64   `json:"skillId"`
	Skill         string  `json:"skill"`
	SubskillCount int     `json:"subskillCount"`
	GradedCount   int     `json:"gradedCount"`
	UniqueUsers   int     `json:"uniqueUsers"`
	Coverage      float64 `json:"coverage"`
}

type GradeBucket struct {
	GradeID    int64   `json:"gradeId"`
	Title      string  `json:"title"`
	Level      string  `json:"level"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type LeaderboardEntry struct {
	Rank         int      `json:"rank"`
	UserID       int64    `json:"userId"`
	Name         string   `json:"name"`
	Department   string   `json:"department,omitempty"`
	Profile      string   `json:"profile,omitempty"`
	TotalSkills  int      `json:"totalSkills"`
	AverageGrade Average  `json:"averageGrade"`
	TopSkills    []string `json:"topSkills"`
}

type SkillAverage struct {
	SkillID  int64   `json:"skillId"`
	Skill    string  `json:"skill"`
	AvgGrade float64 `json:"avgGrade"`
	Samples  int     `json:"samples"`
}

type ProfileCount struct {
	ProfileID int64  `json:"profileId"`
	Profile   string `json:"profile"`
	Count     int    `json:"count"`
}

type TeamSummary struct {
	TotalEmployees    int                `json:"totalEmployees"`
	TotalGradedSkills int                `json:"totalGradedSkills"`
	AverageGrade      Average            `json:"averageGrade"`
	SeniorPercentage  float64            `json:"seniorPercentage"`
	Leaderboard       []LeaderboardEntry `json:"leaderboard"`
	GradeDistribution []GradeBucket      `json:"gradeDistribution"`
	SkillCoverage     []SkillCoverage    `json:"skillCoverage"`
	TeamRadar         []SkillAverage     `json:"teamRadar"`
	Profiles          []ProfileCount     `json:"profiles"`
}

// AverageGrade is the mean gradeid over the active assignments of userID in
// maps. No assignments means 0.
func AverageGrade(maps []mapping.SkillMap, userID int64) Average {
	var sum, n int64
	for _, sm := range maps {
		if !sm.Active || sm.UserID != userID {
			continue
		}
		sum += sm.GradeID
		n++
	}
	return MeanOf(sum, n)
}

// SkillsGraded counts userID's active assignments in maps.
func SkillsGraded(maps []mapping.SkillMap, userID int64) int {
	n := 0
	for _, sm := range maps {
		if sm.Active && sm.UserID == userID {
			n++
		}
	}
	return n
}

func Progress(graded, assignable int) float64 {
	return Percent(graded, assignable)
}

// StatsFor builds the per-employee card from maps (persisted, or the
// session's effective set) and the employee's resolved scope.
func StatsFor(maps []mapping.SkillMap, scope resolution.Scope) UserStats {
	avg := AverageGrade(maps, scope.UserID)
	graded := SkillsGraded(maps, scope.UserID)
	assignable := scope.Assignable()
	return UserStats{
		UserID:       scope.UserID,
		AverageGrade: avg,
		Average:      avg.String(),
		SkillsGraded: graded,
		Assignable:   assignable,
		Progress:     Progress(graded, assignable),
		Technologies: len(scope.Technologies),
	}
}

// Coverage is, per active skill, the share of active users holding at least
// one graded sub-skill under it.
func Coverage(d dataset.Dataset) []SkillCoverage {
	activeUsers := map[int64]struct{}{}
	for _, u := range d.ActiveUsers() {
		activeUsers[u.ID] = struct{}{}
	}
	skillOf := subskillOwners(d.Subskills)

	out := make([]SkillCoverage, 0)
	for _, sk := range d.ActiveSkills() {
		c := SkillCoverage{SkillID: sk.ID, Skill: sk.Title}
		for _, sub := range d.Subskills {
			if sub.SkillID == sk.ID {
				c.SubskillCount++
			}
		}
		users := map[int64]struct{}{}
		for _, sm := range d.SkillMaps {
			if !sm.Active || skillOf[sm.SubskillID] != sk.ID {
				continue
			}
			c.GradedCount++
			if _, ok := activeUsers[sm.UserID]; ok {
				users[sm.UserID] = struct{}{}
			}
		}
		c.UniqueUsers = len(users)
		c.Coverage = Percent(c.UniqueUsers, len(activeUsers))
		out = append(out, c)
	}
	return out
}

// GradeDistribution has one bucket per active grade, in level order, with
// zero counts kept.
func GradeDistribution(d dataset.Dataset) []GradeBucket {
	counts := map[int64]int{}
	total := 0
	for _, sm := range d.SkillMaps {
		if !sm.Active || sm.GradeID == mapping.NoGrade {
			continue
		}
		counts[sm.GradeID]++
		total++
	}

	grades := d.ActiveGrades()
	out := make([]GradeBucket, 0, len(grades))
	for _, g := range grades {
		out = append(out, GradeBucket{
			GradeID:    g.ID,
			Title:      g.Title,
			Level:      g.Level,
			Count:      counts[g.ID],
			Percentage: Percent(counts[g.ID], total),
		})
	}
	return out
}

// Leaderboard ranks active users by average grade, highest first. Ties keep
// the user list order.
func Leaderboard(d dataset.Dataset) []LeaderboardEntry {
	subs := catalog.NewIndex(d.Subskills)
	profiles := catalog.NewIndex(d.Profiles)

	out := make([]LeaderboardEntry, 0)
	for _, u := range d.ActiveUsers() {
		maps := d.AssignmentsFor(u.ID)
		e := LeaderboardEntry{
			UserID:       u.ID,
			Name:         u.Name,
			Department:   u.Department,
			TotalSkills:  len(maps),
			AverageGrade: AverageGrade(maps, u.ID),
			TopSkills:    topSkills(maps, subs),
		}
		if pid, ok := resolution.ProfileOf(d, u.ID); ok {
			if p, ok := profiles.Get(pid); ok {
				e.Profile = p.Title
			}
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageGrade.Value > out[j].AverageGrade.Value
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// SkillAverages is the radar series: per active skill, the mean grade across
// every assignment whose sub-skill belongs to it. Pass userID 0 for the whole
// team.
func SkillAverages(d dataset.Dataset, userID int64) []SkillAverage {
	skillOf := subskillOwners(d.Subskills)
	type acc struct{ sum, n int64 }
	bySkill := map[int64]*acc{}
	for _, sm := range d.SkillMaps {
		if !sm.Active {
			continue
		}
		if userID != 0 && sm.UserID != userID {
			continue
		}
		sk, ok := skillOf[sm.SubskillID]
		if !ok {
			continue
		}
		a := bySkill[sk]
		if a == nil {
			a = &acc{}
			bySkill[sk] = a
		}
		a.sum += sm.GradeID
		a.n++
	}

	out := make([]SkillAverage, 0)
	for _, sk := range d.ActiveSkills() {
		sa := SkillAverage{SkillID: sk.ID, Skill: sk.Title}
		if a := bySkill[sk.ID]; a != nil {
			m := MeanOf(a.sum, a.n)
			sa.AvgGrade = m.Value
			sa.Samples = m.Samples
		}
		out = append(out, sa)
	}
	return out
}

// ProfileDistribution counts active Profile-User mappings per active profile,
// leaving out profiles nobody holds.
func ProfileDistribution(d dataset.Dataset) []ProfileCount {
	counts := map[int64]int{}
	for _, pu := range d.ProfileUsers {
		if pu.Active {
			counts[pu.ProfileID]++
		}
	}
	out := make([]ProfileCount, 0)
	for _, p := range d.Profiles {
		if !p.Active || counts[p.ID] == 0 {
			continue
		}
		out = append(out, ProfileCount{ProfileID: p.ID, Profile: p.Title, Count: counts[p.ID]})
	}
	return out
}

func Summarize(d dataset.Dataset) TeamSummary {
	maps := d.ActiveAssignments()
	grades := catalog.NewIndex(d.Grades)

	var sum int64
	senior := 0
	for _, sm := range maps {
		sum += sm.GradeID
		if g, ok := grades.Get(sm.GradeID); ok && isSenior(g) {
			senior++
		}
	}

	return TeamSummary{
		TotalEmployees:    len(d.ActiveUsers()),
		TotalGradedSkills: len(maps),
		AverageGrade:      MeanOf(sum, int64(len(maps))),
		SeniorPercentage:  Percent(senior, len(maps)),
		Leaderboard:       Leaderboard(d),
		GradeDistribution: GradeDistribution(d),
		SkillCoverage:     Coverage(d),
		TeamRadar:         SkillAverages(d, 0),
		Profiles:          ProfileDistribution(d),
	}
}

func isSenior(g catalog.Grade) bool {
	o := catalog.LevelOrdinal(g.Level)
	return o >= seniorOrdinal && o != math.MaxInt32
}

func topSkills(maps []mapping.SkillMap, subs catalog.Index[catalog.Subskill]) []string {
	sorted := append([]mapping.SkillMap(nil), maps...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].GradeID > sorted[j].GradeID })

	out := make([]string, 0, topSkillCount)
	for _, sm := range sorted {
		if len(out) == topSkillCount {
			break
		}
		sub, ok := subs.Get(sm.SubskillID)
		if !ok {
			continue
		}
		out = append(out, sub.Title)
	}
	return out
}

func subskillOwners(subs []catalog.Subskill) map[int64]int64 {
	out := make(map[int64]int64, len(subs))
	for _, s := range subs {
		out[s.ID] = s.SkillID
	}
	return out
}
