package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/mapping"
)

func sharedSkillDataset() dataset.Dataset {
	return dataset.Dataset{
		Users:    []catalog.User{{ID: 1, Name: "John Smith", Email: "john@example.com", Active: true}},
		Profiles: []catalog.Profile{{ID: 10, Title: "Full Stack Developer", Active: true}},
		Technologies: []catalog.Technology{
			{ID: 100, Title: "React", Category: catalog.CategoryFrontend, Active: true},
			{ID: 200, Title: "Node.js", Category: catalog.CategoryBackend, Active: true},
		},
		Skills: []catalog.Skill{{ID: 7, Title: "API Integration", Active: true}},
		Subskills: []catalog.Subskill{
			{ID: 71, SkillID: 7, Title: "REST", Active: true},
			{ID: 72, SkillID: 7, Title: "GraphQL", Active: true},
			{ID: 73, SkillID: 7, Title: "SOAP", Active: false},
		},
		ProfileUsers: []mapping.ProfileUser{{ID: 1, UserID: 1, ProfileID: 10, Active: true}},
		TechnologyProfiles: []mapping.TechnologyProfile{
			{ID: 1, TechnologyID: 100, ProfileID: 10, Active: true},
			{ID: 2, TechnologyID: 200, ProfileID: 10, Active: true},
		},
		TechnologySkills: []mapping.TechnologySkill{
			{ID: 1, TechnologyID: 100, SkillID: 7, Active: true},
			{ID: 2, TechnologyID: 200, SkillID: 7, Active: true},
		},
	}
}

func TestResolve_SameSkillUnderEveryTechnology(t *testing.T) {
	scope := Resolve(sharedSkillDataset(), 1)

	require.Len(t, scope.Technologies, 2)
	require.NotNil(t, scope.Profile)
	assert.Equal(t, int64(10), scope.Profile.ID)

	first, second := scope.Technologies[0], scope.Technologies[1]
	assert.Equal(t, "React", first.Technology.Title)
	assert.Equal(t, "Node.js", second.Technology.Title)

	require.Len(t, first.Skills, 1)
	require.Len(t, second.Skills, 1)
	assert.Equal(t, first.Skills[0].Subskills, second.Skills[0].Subskills)
	assert.Len(t, first.Skills[0].Subskills, 2, "inactive sub-skill must be skipped")
	assert.Equal(t, 2, first.SubskillCount)

	assert.Equal(t, []int64{71, 72}, scope.SubskillIDs())
	assert.Equal(t, 2, scope.Assignable())
	assert.True(t, scope.Contains(72))
	assert.False(t, scope.Contains(73))
}

func TestResolve_NoProfileMappingIsEmpty(t *testing.T) {
	d := sharedSkillDataset()
	d.ProfileUsers = nil

	scope := Resolve(d, 1)
	assert.True(t, scope.Empty())
	assert.Nil(t, scope.Profile)
	assert.Equal(t, 0, scope.Assignable())
}

func TestResolve_IgnoresInlineProfileField(t *testing.T) {
	d := sharedSkillDataset()
	d.ProfileUsers = nil
	pid := int64(10)
	d.Users[0].ProfileID = &pid

	assert.True(t, Resolve(d, 1).Empty())
}

func TestResolve_DedupesWithinTechnology(t *testing.T) {
	d := sharedSkillDataset()
	d.TechnologySkills = append(d.TechnologySkills, mapping.TechnologySkill{ID: 3, TechnologyID: 100, SkillID: 7, Active: true})

	scope := Resolve(d, 1)
	require.Len(t, scope.Technologies, 2)
	assert.Len(t, scope.Technologies[0].Skills, 1)
}

func TestResolve_SkipsInactiveAndDanglingLinks(t *testing.T) {
	d := sharedSkillDataset()
	d.Technologies[1].Active = false
	d.TechnologyProfiles = append(d.TechnologyProfiles, mapping.TechnologyProfile{ID: 3, TechnologyID: 999, ProfileID: 10, Active: true})
	d.TechnologySkills = append(d.TechnologySkills, mapping.TechnologySkill{ID: 4, TechnologyID: 100, SkillID: 555, Active: true})

	scope := Resolve(d, 1)
	require.Len(t, scope.Technologies, 1)
	assert.Equal(t, int64(100), scope.Technologies[0].Technology.ID)
	assert.Len(t, scope.Technologies[0].Skills, 1)
}

func TestResolve_InactiveProfileMappingIgnored(t *testing.T) {
	d := sharedSkillDataset()
	d.ProfileUsers[0].Active = false

	assert.True(t, Resolve(d, 1).Empty())
}

func TestProfileOf_FirstActiveMappingWins(t *testing.T) {
	d := dataset.Dataset{ProfileUsers: []mapping.ProfileUser{
		{ID: 9, UserID: 1, ProfileID: 30, Active: true},
		{ID: 4, UserID: 1, ProfileID: 20, Active: true},
		{ID: 2, UserID: 1, ProfileID: 10, Active: false},
	}}

	pid, ok := ProfileOf(d, 1)
	require.True(t, ok)
	assert.Equal(t, int64(20), pid)
}
