package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/apperrors"
)

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	var v *apperrors.ValidationError
	require.ErrorAs(t, err, &v)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	return v.Fields
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rec  interface{ Validate() error }
		want []string
	}{
		{"grade ok", Grade{Title: "Senior", Level: "L3"}, nil},
		{"grade missing both", Grade{Title: " ", Level: ""}, []string{"title", "gradelevel"}},
		{"grade missing level", Grade{Title: "Senior"}, []string{"gradelevel"}},
		{"profile ok", Profile{Title: "Backend Developer"}, nil},
		{"profile blank title", Profile{Title: "\t"}, []string{"title"}},
		{"technology ok", Technology{Title: "Go", Category: CategoryBackend}, nil},
		{"technology unknown type", Technology{Title: "Go", Category: "backend"}, []string{"type"}},
		{"technology empty", Technology{}, []string{"title", "type"}},
		{"skill blank title", Skill{}, []string{"title"}},
		{"subskill without skill", Subskill{Title: "Channels"}, []string{"skillId"}},
		{"subskill empty", Subskill{SkillID: -1}, []string{"title", "skillId"}},
		{"user ok without role", User{Name: "Ana", Email: "ana@example.com"}, nil},
		{"user bad email", User{Name: "Ana", Email: "ana.example.com"}, []string{"email"}},
		{"user bad role", User{Name: "Ana", Email: "ana@example.com", Role: "admin"}, []string{"role"}},
		{"user empty", User{}, []string{"name", "email"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validationFields(t, tc.rec.Validate()))
		})
	}
}

func TestCategoryAndRoleValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("").Valid())
	assert.False(t, Category("frontend").Valid())

	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("").Valid())
}

func TestLevelOrdinal(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"L1", 1},
		{"L9", 9},
		{"L10", 10},
		{" L2 ", 2},
		{"7", 7},
		{"Level 03", 3},
		{"Lead", math.MaxInt32},
		{"", math.MaxInt32},
		{"L99999999999999999999", math.MaxInt32},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LevelOrdinal(tc.level), "level %q", tc.level)
	}
}

func TestSortGrades(t *testing.T) {
	grades := []Grade{
		{ID: 1, Level: "Lead"},
		{ID: 2, Level: "L10"},
		{ID: 3, Level: "L9"},
		{ID: 4, Level: "Expert"},
		{ID: 5, Level: "L1"},
		{ID: 6, Level: "L9"},
	}
	SortGrades(grades)

	ids := make([]int64, 0, len(grades))
	for _, g := range grades {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []int64{5, 3, 6, 2, 4, 1}, ids)
}

func TestGradeLabel(t *testing.T) {
	idx := NewIndex([]Grade{
		{ID: 1, Title: "Senior", Level: "L3"},
		{ID: 2, Title: "Intern"},
		{ID: 3, Level: "L0"},
	})

	assert.Equal(t, "L3 - Senior", GradeLabel(idx, 1))
	assert.Equal(t, "Intern", GradeLabel(idx, 2))
	assert.Equal(t, "L0", GradeLabel(idx, 3))
	assert.Equal(t, UnknownGrade, GradeLabel(idx, 42))
}

func TestIndexActive(t *testing.T) {
	idx := NewIndex([]Skill{{ID: 1, Title: "Go", Active: true}, {ID: 2, Title: "Perl"}})
	assert.Equal(t, 2, idx.Len())

	_, ok := Active(idx, 1)
	assert.True(t, ok)
	_, ok = Active(idx, 2)
	assert.False(t, ok, "inactive")
	_, ok = Active(idx, 3)
	assert.False(t, ok, "missing")

	s, ok := idx.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "Perl", s.Title)
}

func TestAuditStamp(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var g Grade
	g.Touch(nil, "lead", created)
	assert.Equal(t, "lead", g.CreatedBy)
	require.NotNil(t, g.CreatedAt)
	assert.Nil(t, g.UpdatedAt)

	updated := Grade{Title: "Senior", Audit: Audit{UpdatedBy: "forged"}}
	updated.Touch(&g, "ana", created.Add(time.Hour))
	assert.Equal(t, "lead", updated.CreatedBy)
	assert.Equal(t, created, *updated.CreatedAt)
	assert.Equal(t, "ana", updated.UpdatedBy)
	assert.Equal(t, created.Add(time.Hour), *updated.UpdatedAt)
}

func TestUserTouch(t *testing.T) {
	prev := User{ID: 1, Email: "ana@example.com", PasswordHash: "hash", Role: RoleManager}
	prev.Touch(nil, "system", time.Now())

	u := User{ID: 1, Name: "Ana", Email: "  Ana@Example.COM "}
	u.Touch(&prev, "lead", time.Now())
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, RoleEmployee, u.Role, "empty role defaults rather than inheriting")

	u.PasswordHash = "new"
	u.Touch(&prev, "lead", time.Now())
	assert.Equal(t, "new", u.PasswordHash)

	clean := User{Password: "p", PasswordHash: "h", Name: "Ana"}.Sanitized()
	assert.Empty(t, clean.Password)
	assert.Empty(t, clean.PasswordHash)
	assert.Equal(t, "Ana", clean.Name)
}
