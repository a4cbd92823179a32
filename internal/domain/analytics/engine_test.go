package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/grading"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/domain/resolution"
)

type memWriter struct {
	maps []mapping.SkillMap
}

func (w *memWriter) AssignGrade(_ context.Context, subskillID, userID, gradeID int64) error {
	for i, sm := range w.maps {
		if sm.Active && sm.SubskillID == subskillID && sm.UserID == userID {
			if gradeID == mapping.NoGrade {
				w.maps = append(w.maps[:i], w.maps[i+1:]...)
				return nil
			}
			w.maps[i].GradeID = gradeID
			return nil
		}
	}
	if gradeID != mapping.NoGrade {
		w.maps = append(w.maps, mapping.SkillMap{ID: int64(len(w.maps) + 100), SubskillID: subskillID, UserID: userID, GradeID: gradeID, Active: true})
	}
	return nil
}

func teamDataset() dataset.Dataset {
	return dataset.Dataset{
		Grades: []catalog.Grade{
			{ID: 1, Title: "Junior", Level: "L1", Active: true},
			{ID: 2, Title: "Senior", Level: "L3", Active: true},
			{ID: 3, Title: "Lead", Level: "L4", Active: true},
			{ID: 4, Title: "Retired", Level: "L9", Active: false},
		},
		Profiles: []catalog.Profile{
			{ID: 1, Title: "Frontend", Active: true},
			{ID: 2, Title: "Backend", Active: true},
			{ID: 3, Title: "Data", Active: true},
		},
		Skills: []catalog.Skill{
			{ID: 1, Title: "Languages", Active: true},
			{ID: 2, Title: "Testing", Active: true},
			{ID: 3, Title: "Old", Active: false},
		},
		Subskills: []catalog.Subskill{
			{ID: 10, SkillID: 1, Title: "Go", Active: true},
			{ID: 11, SkillID: 1, Title: "TypeScript", Active: true},
			{ID: 12, SkillID: 2, Title: "Unit", Active: true},
			{ID: 13, SkillID: 3, Title: "COBOL", Active: true},
		},
		Users: []catalog.User{
			{ID: 1, Name: "Ana", Active: true},
			{ID: 2, Name: "Ben", Active: true},
			{ID: 3, Name: "Cy", Active: false},
		},
		ProfileUsers: []mapping.ProfileUser{
			{ID: 1, UserID: 1, ProfileID: 1, Active: true},
			{ID: 2, UserID: 2, ProfileID: 2, Active: true},
			{ID: 3, UserID: 3, ProfileID: 2, Active: true},
		},
		SkillMaps: []mapping.SkillMap{
			{ID: 1, SubskillID: 10, UserID: 1, GradeID: 3, Active: true},
			{ID: 2, SubskillID: 11, UserID: 1, GradeID: 2, Active: true},
			{ID: 3, SubskillID: 12, UserID: 2, GradeID: 1, Active: true},
			{ID: 4, SubskillID: 10, UserID: 3, GradeID: 3, Active: true},
			{ID: 5, SubskillID: 11, UserID: 2, GradeID: 3, Active: false},
		},
	}
}

func TestAverageGrade_UsesOnlyActiveAssignmentsOfTheUser(t *testing.T) {
	d := teamDataset()
	assert.Equal(t, "2.5", AverageGrade(d.SkillMaps, 1).String())
	assert.Equal(t, "1.0", AverageGrade(d.SkillMaps, 2).String())
	assert.Equal(t, "0", AverageGrade(d.SkillMaps, 42).String())
	assert.Equal(t, 1, SkillsGraded(d.SkillMaps, 2))
}

func TestProgress_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Progress(3, 0))
	assert.Equal(t, 75.0, Progress(3, 4))
}

func TestCoverage_CountsActiveUsersOnly(t *testing.T) {
	cov := Coverage(teamDataset())

	require.Len(t, cov, 2, "inactive skill is left out")
	lang := cov[0]
	assert.Equal(t, "Languages", lang.Skill)
	assert.Equal(t, 2, lang.SubskillCount)
	assert.Equal(t, 3, lang.GradedCount)
	assert.Equal(t, 1, lang.UniqueUsers)
	assert.Equal(t, 50.0, lang.Coverage)

	unit := cov[1]
	assert.Equal(t, 1, unit.UniqueUsers)
	assert.Equal(t, 50.0, unit.Coverage)
}

func TestGradeDistribution_ZeroFilledInLevelOrder(t *testing.T) {
	d := teamDataset()
	d.Grades = append(d.Grades, catalog.Grade{ID: 5, Title: "Mid", Level: "L2", Active: true})

	dist := GradeDistribution(d)
	require.Len(t, dist, 4)
	levels := []string{dist[0].Level, dist[1].Level, dist[2].Level, dist[3].Level}
	assert.Equal(t, []string{"L1", "L2", "L3", "L4"}, levels)
	assert.Equal(t, 1, dist[0].Count)
	assert.Equal(t, 0, dist[1].Count)
	assert.Equal(t, 0.0, dist[1].Percentage)
	assert.Equal(t, 2, dist[3].Count)
	assert.Equal(t, 50.0, dist[3].Percentage)
}

func TestLeaderboard_SortedByAverageDescending(t *testing.T) {
	board := Leaderboard(teamDataset())

	require.Len(t, board, 2)
	assert.Equal(t, "Ana", board[0].Name)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "Frontend", board[0].Profile)
	assert.Equal(t, []string{"Go", "TypeScript"}, board[0].TopSkills)
	assert.Equal(t, "Ben", board[1].Name)
	assert.Equal(t, 2, board[1].Rank)
}

func TestLeaderboard_TiesKeepUserOrder(t *testing.T) {
	d := teamDataset()
	d.SkillMaps = []mapping.SkillMap{
		{ID: 1, SubskillID: 10, UserID: 2, GradeID: 2, Active: true},
		{ID: 2, SubskillID: 10, UserID: 1, GradeID: 2, Active: true},
	}
	board := Leaderboard(d)
	assert.Equal(t, int64(1), board[0].UserID)
	assert.Equal(t, int64(2), board[1].UserID)
}

func TestSummarize(t *testing.T) {
	sum := Summarize(teamDataset())

	assert.Equal(t, 2, sum.TotalEmployees)
	assert.Equal(t, 4, sum.TotalGradedSkills)
	assert.Equal(t, "2.3", sum.AverageGrade.String())
	assert.Equal(t, 75.0, sum.SeniorPercentage)
	require.Len(t, sum.Profiles, 2)
	assert.Equal(t, "Backend", sum.Profiles[1].Profile)
	assert.Equal(t, 2, sum.Profiles[1].Count)

	require.Len(t, sum.TeamRadar, 2)
	assert.Equal(t, 2.7, sum.TeamRadar[0].AvgGrade)
	assert.Equal(t, 3, sum.TeamRadar[0].Samples)
}

func TestSkillAverages_ForOneUser(t *testing.T) {
	radar := SkillAverages(teamDataset(), 1)
	require.Len(t, radar, 2)
	assert.Equal(t, 2.5, radar[0].AvgGrade)
	assert.Equal(t, 0.0, radar[1].AvgGrade)
	assert.Equal(t, 0, radar[1].Samples)
}

func TestStatsAfterSavingAnotherGrade(t *testing.T) {
	d := dataset.Dataset{
		Grades: []catalog.Grade{
			{ID: 1, Title: "Junior", Level: "L1", Active: true},
			{ID: 2, Title: "Senior", Level: "L3", Active: true},
		},
		SkillMaps: []mapping.SkillMap{{ID: 1, SubskillID: 10, UserID: 5, GradeID: 2, Active: true}},
	}
	scope := resolution.Scope{UserID: 5}

	before := StatsFor(d.SkillMaps, scope)
	assert.Equal(t, "2.0", before.Average)
	assert.Equal(t, 1, before.SkillsGraded)

	s := grading.New().Select(5, scope, d.SkillMaps)
	s, err := s.SetGrade(11, 1)
	require.NoError(t, err)

	preview := StatsFor(s.Assignments(), scope)
	assert.Equal(t, "1.5", preview.Average)

	w := &memWriter{maps: append([]mapping.SkillMap(nil), d.SkillMaps...)}
	s, err = s.Save(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, grading.Loaded, s.State())

	after := StatsFor(w.maps, scope)
	assert.Equal(t, 2, after.SkillsGraded)
	assert.Equal(t, "1.5", after.Average)
}

func TestGradeLabel_DanglingAfterDelete(t *testing.T) {
	grades := []catalog.Grade{
		{ID: 1, Title: "Junior", Level: "L1", Active: true},
		{ID: 2, Title: "Senior", Level: "L3", Active: true},
	}
	idx := catalog.NewIndex(grades)
	assert.Equal(t, "L3 - Senior", catalog.GradeLabel(idx, 2))

	idx = catalog.NewIndex(grades[:1])
	assert.Equal(t, catalog.UnknownGrade, catalog.GradeLabel(idx, 2))
}
