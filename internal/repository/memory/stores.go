package memory

import (
	"context"
	"fmt"
	"strings"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/repository"
)

type pairRecord interface {
	record
	IsActive() bool
	Pair() (int64, int64)
}

func activePair[T pairRecord](v T) (string, bool) {
	if !v.IsActive() {
		return "", false
	}
	a, b := v.Pair()
	return fmt.Sprintf("%d:%d", a, b), true
}

type pairTable[T pairRecord] struct {
	*table[T]
}

func newPairTable[T pairRecord](name string, setKey func(*T, int64)) pairTable[T] {
	return pairTable[T]{newTable(name, setKey, activePair[T])}
}

func (t pairTable[T]) FindActivePair(ctx context.Context, left, right int64) (T, bool, error) {
	return t.first(ctx, func(v T) bool {
		if !v.IsActive() {
			return false
		}
		a, b := v.Pair()
		return a == left && b == right
	})
}

type subskills struct {
	*table[catalog.Subskill]
}

func (s subskills) ListBySkill(ctx context.Context, skillID int64) ([]catalog.Subskill, error) {
	return s.filter(ctx, func(v catalog.Subskill) bool { return v.SkillID == skillID })
}

type users struct {
	*table[catalog.User]
}

func (u users) GetByEmail(ctx context.Context, email string) (catalog.User, error) {
	email = normalizeEmail(email)
	v, ok, err := u.first(ctx, func(v catalog.User) bool { return normalizeEmail(v.Email) == email })
	if err != nil {
		return catalog.User{}, err
	}
	if !ok {
		return catalog.User{}, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
	}
	return v, nil
}

type skillMaps struct {
	pairTable[mapping.SkillMap]
}

func (s skillMaps) ListByUser(ctx context.Context, userID int64) ([]mapping.SkillMap, error) {
	return s.filter(ctx, func(v mapping.SkillMap) bool { return v.UserID == userID })
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewStores returns an empty set of tables.
func NewStores() repository.Stores {
	return repository.Stores{
		Grades:       newTable("grades", (*catalog.Grade).SetKey, nil),
		Profiles:     newTable("profiles", (*catalog.Profile).SetKey, nil),
		Technologies: newTable("technologies", (*catalog.Technology).SetKey, nil),
		Skills:       newTable("skills", (*catalog.Skill).SetKey, nil),
		Subskills:    subskills{newTable("subskills", (*catalog.Subskill).SetKey, nil)},
		Users: users{newTable("users", (*catalog.User).SetKey, func(u catalog.User) (string, bool) {
			return normalizeEmail(u.Email), true
		})},
		TechnologySkills:   newPairTable("technology_skills", (*mapping.TechnologySkill).SetKey),
		TechnologyProfiles: newPairTable("technology_profiles", (*mapping.TechnologyProfile).SetKey),
		ProfileUsers:       newPairTable("profile_users", (*mapping.ProfileUser).SetKey),
		SkillMaps:          skillMaps{newPairTable("skill_maps", (*mapping.SkillMap).SetKey)},
	}
}
