package repository

import (
	"context"

	"skill-matrix/internal/database"
	"skill-matrix/internal/domain/mapping"
)

type PostgresTechnologySkillRepository struct {
	pgTable[mapping.TechnologySkill]
}

func NewPostgresTechnologySkillRepository(db database.DB) *PostgresTechnologySkillRepository {
	return &PostgresTechnologySkillRepository{pgTable[mapping.TechnologySkill]{
		db:      db,
		name:    "technology_skills",
		columns: withAudit("technology_id", "skill_id", "is_active"),
		scan: func(row database.Row) (mapping.TechnologySkill, error) {
			var m mapping.TechnologySkill
			err := row.Scan(append([]any{&m.ID, &m.TechnologyID, &m.SkillID, &m.Active}, auditDest(&m.Audit)...)...)
			return m, err
		},
		values: func(m mapping.TechnologySkill) []any {
			return append([]any{m.TechnologyID, m.SkillID, m.Active}, auditValues(m.Audit)...)
		},
		key: mapping.TechnologySkill.Key,
	}}
}

func (r *PostgresTechnologySkillRepository) FindActivePair(ctx context.Context, technologyID, skillID int64) (mapping.TechnologySkill, bool, error) {
	return r.findActivePair(ctx, "technology_id", "skill_id", technologyID, skillID)
}

type PostgresTechnologyProfileRepository struct {
	pgTable[mapping.TechnologyProfile]
}

func NewPostgresTechnologyProfileRepository(db database.DB) *PostgresTechnologyProfileRepository {
	return &PostgresTechnologyProfileRepository{pgTable[mapping.TechnologyProfile]{
		db:      db,
		name:    "technology_profiles",
		columns: withAudit("technology_id", "profile_id", "is_active"),
		scan: func(row database.Row) (mapping.TechnologyProfile, error) {
			var m mapping.TechnologyProfile
			err := row.Scan(append([]any{&m.ID, &m.TechnologyID, &m.ProfileID, &m.Active}, auditDest(&m.Audit)...)...)
			return m, err
		},
		values: func(m mapping.TechnologyProfile) []any {
			return append([]any{m.TechnologyID, m.ProfileID, m.Active}, auditValues(m.Audit)...)
		},
		key: mapping.TechnologyProfile.Key,
	}}
}

func (r *PostgresTechnologyProfileRepository) FindActivePair(ctx context.Context, technologyID, profileID int64) (mapping.TechnologyProfile, bool, error) {
	return r.findActivePair(ctx, "technology_id", "profile_id", technologyID, profileID)
}

type PostgresProfileUserRepository struct {
	pgTable[mapping.ProfileUser]
}

func NewPostgresProfileUserRepository(db database.DB) *PostgresProfileUserRepository {
	return &PostgresProfileUserRepository{pgTable[mapping.ProfileUser]{
		db:      db,
		name:    "profile_users",
		columns: withAudit("user_id", "profile_id", "is_active"),
		scan: func(row database.Row) (mapping.ProfileUser, error) {
			var m mapping.ProfileUser
			err := row.Scan(append([]any{&m.ID, &m.UserID, &m.ProfileID, &m.Active}, auditDest(&m.Audit)...)...)
			return m, err
		},
		values: func(m mapping.ProfileUser) []any {
			return append([]any{m.UserID, m.ProfileID, m.Active}, auditValues(m.Audit)...)
		},
		key: mapping.ProfileUser.Key,
	}}
}

func (r *PostgresProfileUserRepository) FindActivePair(ctx context.Context, userID, profileID int64) (mapping.ProfileUser, bool, error) {
	return r.findActivePair(ctx, "user_id", "profile_id", userID, profileID)
}

type PostgresSkillMapRepository struct {
	pgTable[mapping.SkillMap]
}

func NewPostgresSkillMapRepository(db database.DB) *PostgresSkillMapRepository {
	return &PostgresSkillMapRepository{pgTable[mapping.SkillMap]{
		db:      db,
		name:    "skill_maps",
		columns: withAudit("subskill_id", "user_id", "grade_id", "is_active"),
		scan: func(row database.Row) (mapping.SkillMap, error) {
			var m mapping.SkillMap
			err := row.Scan(append([]any{&m.ID, &m.SubskillID, &m.UserID, &m.GradeID, &m.Active}, auditDest(&m.Audit)...)...)
			return m, err
		},
		values: func(m mapping.SkillMap) []any {
			return append([]any{m.SubskillID, m.UserID, m.GradeID, m.Active}, auditValues(m.Audit)...)
		},
		key: mapping.SkillMap.Key,
	}}
}

func (r *PostgresSkillMapRepository) FindActivePair(ctx context.Context, subskillID, userID int64) (mapping.SkillMap, bool, error) {
	return r.findActivePair(ctx, "subskill_id", "user_id", subskillID, userID)
}

func (r *PostgresSkillMapRepository) ListByUser(ctx context.Context, userID int64) ([]mapping.SkillMap, error) {
	return r.query(ctx, "user_id = $1", userID)
}

// NewPostgresStores wires every Postgres repository over one pool.
func NewPostgresStores(db database.DB) Stores {
	return Stores{
		Grades:             NewPostgresGradeRepository(db),
		Profiles:           NewPostgresProfileRepository(db),
		Technologies:       NewPostgresTechnologyRepository(db),
		Skills:             NewPostgresSkillRepository(db),
		Subskills:          NewPostgresSubskillRepository(db),
		Users:              NewPostgresUserRepository(db),
		TechnologySkills:   NewPostgresTechnologySkillRepository(db),
		TechnologyProfiles: NewPostgresTechnologyProfileRepository(db),
		ProfileUsers:       NewPostgresProfileUserRepository(db),
		SkillMaps:          NewPostgresSkillMapRepository(db),
	}
}
