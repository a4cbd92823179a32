package repository

import (
	"context"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
)

// Store is the CRUD surface shared by every table. Lookups of a missing id
// return an error wrapping apperrors.ErrNotFound; unique index violations
// wrap apperrors.ErrConflict.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, v T) (T, error)
	Update(ctx context.Context, v T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// PairStore is a join table with at most one active row per pair.
type PairStore[T any] interface {
	Store[T]
	FindActivePair(ctx context.Context, left, right int64) (T, bool, error)
}

type SubskillStore interface {
	Store[catalog.Subskill]
	ListBySkill(ctx context.Context, skillID int64) ([]catalog.Subskill, error)
}

type UserStore interface {
	Store[catalog.User]
	GetByEmail(ctx context.Context, email string) (catalog.User, error)
}

type SkillMapStore interface {
	PairStore[mapping.SkillMap]
	ListByUser(ctx context.Context, userID int64) ([]mapping.SkillMap, error)
}

// Stores bundles one store per table for a single backend.
type Stores struct {
	Grades             Store[catalog.Grade]
	Profiles           Store[catalog.Profile]
	Technologies       Store[catalog.Technology]
	Skills             Store[catalog.Skill]
	Subskills          SubskillStore
	Users              UserStore
	TechnologySkills   PairStore[mapping.TechnologySkill]
	TechnologyProfiles PairStore[mapping.TechnologyProfile]
	ProfileUsers       PairStore[mapping.ProfileUser]
	SkillMaps          SkillMapStore
}
