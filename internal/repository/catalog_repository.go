package repository

import (
	"context"
	"fmt"
	"strings"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/database"
	"skill-matrix/internal/domain/catalog"
)

type PostgresGradeRepository struct {
	pgTable[catalog.Grade]
}

func NewPostgresGradeRepository(db database.DB) *PostgresGradeRepository {
	return &PostgresGradeRepository{pgTable[catalog.Grade]{
		db:      db,
		name:    "grades",
		columns: withAudit("title", "grade_level", "is_active"),
		scan: func(row database.Row) (catalog.Grade, error) {
			var g catalog.Grade
			err := row.Scan(append([]any{&g.ID, &g.Title, &g.Level, &g.Active}, auditDest(&g.Audit)...)...)
			return g, err
		},
		values: func(g catalog.Grade) []any {
			return append([]any{g.Title, g.Level, g.Active}, auditValues(g.Audit)...)
		},
		key: catalog.Grade.Key,
	}}
}

type PostgresProfileRepository struct {
	pgTable[catalog.Profile]
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{pgTable[catalog.Profile]{
		db:      db,
		name:    "profiles",
		columns: withAudit("title", "is_active"),
		scan: func(row database.Row) (catalog.Profile, error) {
			var p catalog.Profile
			err := row.Scan(append([]any{&p.ID, &p.Title, &p.Active}, auditDest(&p.Audit)...)...)
			return p, err
		},
		values: func(p catalog.Profile) []any {
			return append([]any{p.Title, p.Active}, auditValues(p.Audit)...)
		},
		key: catalog.Profile.Key,
	}}
}

type PostgresTechnologyRepository struct {
	pgTable[catalog.Technology]
}

func NewPostgresTechnologyRepository(db database.DB) *PostgresTechnologyRepository {
	return &PostgresTechnologyRepository{pgTable[catalog.Technology]{
		db:      db,
		name:    "technologies",
		columns: withAudit("title", "category", "is_active"),
		scan: func(row database.Row) (catalog.Technology, error) {
			var t catalog.Technology
			err := row.Scan(append([]any{&t.ID, &t.Title, &t.Category, &t.Active}, auditDest(&t.Audit)...)...)
			return t, err
		},
		values: func(t catalog.Technology) []any {
			return append([]any{t.Title, string(t.Category), t.Active}, auditValues(t.Audit)...)
		},
		key: catalog.Technology.Key,
	}}
}

type PostgresSkillRepository struct {
	pgTable[catalog.Skill]
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{pgTable[catalog.Skill]{
		db:      db,
		name:    "skills",
		columns: withAudit("title", "is_active"),
		scan: func(row database.Row) (catalog.Skill, error) {
			var s catalog.Skill
			err := row.Scan(append([]any{&s.ID, &s.Title, &s.Active}, auditDest(&s.Audit)...)...)
			return s, err
		},
		values: func(s catalog.Skill) []any {
			return append([]any{s.Title, s.Active}, auditValues(s.Audit)...)
		},
		key: catalog.Skill.Key,
	}}
}

type PostgresSubskillRepository struct {
	pgTable[catalog.Subskill]
}

func NewPostgresSubskillRepository(db database.DB) *PostgresSubskillRepository {
	return &PostgresSubskillRepository{pgTable[catalog.Subskill]{
		db:      db,
		name:    "subskills",
		columns: withAudit("skill_id", "title", "is_active"),
		scan: func(row database.Row) (catalog.Subskill, error) {
			var s catalog.Subskill
			err := row.Scan(append([]any{&s.ID, &s.SkillID, &s.Title, &s.Active}, auditDest(&s.Audit)...)...)
			return s, err
		},
		values: func(s catalog.Subskill) []any {
			return append([]any{s.SkillID, s.Title, s.Active}, auditValues(s.Audit)...)
		},
		key: catalog.Subskill.Key,
	}}
}

func (r *PostgresSubskillRepository) ListBySkill(ctx context.Context, skillID int64) ([]catalog.Subskill, error) {
	return r.query(ctx, "skill_id = $1", skillID)
}

type PostgresUserRepository struct {
	pgTable[catalog.User]
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{pgTable[catalog.User]{
		db:      db,
		name:    "users",
		columns: withAudit("name", "email", "department", "profile_id", "role", "password_hash", "is_active"),
		scan: func(row database.Row) (catalog.User, error) {
			var u catalog.User
			err := row.Scan(append([]any{&u.ID, &u.Name, &u.Email, &u.Department, &u.ProfileID, &u.Role, &u.PasswordHash, &u.Active}, auditDest(&u.Audit)...)...)
			return u, err
		},
		values: func(u catalog.User) []any {
			return append([]any{u.Name, u.Email, u.Department, u.ProfileID, string(u.Role), u.PasswordHash, u.Active}, auditValues(u.Audit)...)
		},
		key: catalog.User.Key,
	}}
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (catalog.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.query(ctx, "lower(email) = $1", email)
	if err != nil {
		return catalog.User{}, err
	}
	if len(rows) == 0 {
		return catalog.User{}, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
	}
	return rows[0], nil
}
