package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/config"
	"skill-matrix/internal/database"
	"skill-matrix/internal/database/migration"
	"skill-matrix/internal/database/postgres"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
)

const postgresImage = "postgres:16-alpine"

func startPostgres(t *testing.T) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode (requires Docker)")
	}
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "skill_matrix",
				"POSTGRES_USER":     "skill",
				"POSTGRES_PASSWORD": "skill",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://skill:skill@%s:%s/skill_matrix?sslmode=disable", host, port.Port())
	db, err := postgres.ConnectDSN(ctx, dsn, config.DatabaseConfig{PoolMaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.Runner{}.Up(db.SQLDB()))
	require.NoError(t, migration.Runner{}.Up(db.SQLDB()), "second run is a no-op")
	return db
}

func TestPostgresStores(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	s := NewPostgresStores(db)
	now := time.Now()

	g := catalog.Grade{Title: "Senior", Level: "L3", Active: true}
	g.Touch(nil, "admin@example.com", now)
	g, err := s.Grades.Create(ctx, g)
	require.NoError(t, err)
	require.NotZero(t, g.ID)
	require.NotNil(t, g.CreatedAt)
	assert.Equal(t, "admin@example.com", g.CreatedBy)
	assert.Nil(t, g.UpdatedAt)

	g.Title = "Senior Engineer"
	g, err = s.Grades.Update(ctx, g)
	require.NoError(t, err)
	got, err := s.Grades.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", got.Title)

	_, err = s.Grades.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.Grades.Update(ctx, catalog.Grade{ID: 9999, Title: "x", Level: "L1"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	tech, err := s.Technologies.Create(ctx, catalog.Technology{Title: "Go", Category: catalog.CategoryBackend, Active: true})
	require.NoError(t, err)
	assert.Equal(t, catalog.CategoryBackend, tech.Category)

	profile := int64(3)
	u, err := s.Users.Create(ctx, catalog.User{Name: "Ana", Email: "ana@example.com", ProfileID: &profile, Role: catalog.RoleManager, PasswordHash: "h", Active: true})
	require.NoError(t, err)
	require.NotNil(t, u.ProfileID)
	assert.Equal(t, int64(3), *u.ProfileID)
	byEmail, err := s.Users.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, catalog.RoleManager, byEmail.Role)
	_, err = s.Users.Create(ctx, catalog.User{Name: "Dup", Email: "Ana@Example.com", Role: catalog.RoleEmployee, Active: true})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	sub, err := s.Subskills.Create(ctx, catalog.Subskill{SkillID: 1, Title: "Generics", Active: true})
	require.NoError(t, err)
	subs, err := s.Subskills.ListBySkill(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	sm, err := s.SkillMaps.Create(ctx, mapping.SkillMap{SubskillID: sub.ID, UserID: u.ID, GradeID: g.ID, Active: true})
	require.NoError(t, err)
	_, err = s.SkillMaps.Create(ctx, mapping.SkillMap{SubskillID: sub.ID, UserID: u.ID, GradeID: g.ID, Active: true})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	found, ok, err := s.SkillMaps.FindActivePair(ctx, sub.ID, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sm.ID, found.ID)

	maps, err := s.SkillMaps.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, maps, 1)

	require.NoError(t, s.SkillMaps.Delete(ctx, sm.ID))
	assert.ErrorIs(t, s.SkillMaps.Delete(ctx, sm.ID), apperrors.ErrNotFound)

	d, err := LoadDataset(ctx, s)
	require.NoError(t, err)
	assert.Len(t, d.Grades, 1)
	assert.Len(t, d.Users, 1)
	assert.Empty(t, d.SkillMaps)
}
