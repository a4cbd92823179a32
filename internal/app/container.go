package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skill-matrix/internal/config"
	"skill-matrix/internal/database"
	"skill-matrix/internal/database/migration"
	dbpostgres "skill-matrix/internal/database/postgres"
	"skill-matrix/internal/database/seeder"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
	"skill-matrix/internal/infrastructure/cache"
	"skill-matrix/internal/pkg/jwt"
	"skill-matrix/internal/repository"
	"skill-matrix/internal/repository/memory"
	"skill-matrix/internal/usecase"
)

const startupTimeout = 30 * time.Second

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Stores repository.Stores
	JWT    jwt.Service

	Grades             *usecase.GradeCatalog
	Profiles           *usecase.ProfileCatalog
	Technologies       *usecase.TechnologyCatalog
	Skills             *usecase.SkillCatalog
	Subskills          *usecase.SubskillCatalog
	Users              *usecase.UserService
	TechnologySkills   *usecase.TechnologySkillMappings
	TechnologyProfiles *usecase.TechnologyProfileMappings
	ProfileUsers       *usecase.ProfileUserMappings
	SkillMaps          *usecase.SkillMapService
	Competency         *usecase.CompetencyService
	Analytics          *usecase.AnalyticsService
	Auth               *usecase.Auth
}

// NewContainer opens the configured store, migrates and seeds it, and wires
// the services on top.
func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	switch cfg.App.StoreDriver {
	case config.DriverMemory:
		logger.Info("using in-memory store")
		c.Stores = memory.NewStores()
	case config.DriverPostgres, "":
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.DB = db
		if cfg.Database.AutoMigrate {
			if err := (migration.Runner{Logger: logger}).Up(db.SQLDB()); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		c.Stores = repository.NewPostgresStores(db)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.App.StoreDriver)
	}

	if cfg.Seed.Enabled {
		r := seeder.Runner{Seeders: seeder.Defaults(cfg.Seed), Logger: logger}
		if err := r.Run(ctx, c.Stores); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.Issuer)
	c.wire()
	return c, nil
}

// NewMemoryContainer wires the services over an existing store set. It is
// used by tests and never touches Postgres or Redis.
func NewMemoryContainer(cfg config.Config, stores repository.Stores, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger, Stores: stores}
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.Issuer)
	c.wire()
	return c
}

func (c *Container) wire() {
	s := c.Stores
	var analyticsCache usecase.Cache
	if c.Cache != nil {
		analyticsCache = c.Cache
	}
	c.Analytics = usecase.NewAnalyticsService(s, analyticsCache, c.Logger)
	inv := c.Analytics

	c.Grades = usecase.NewCatalog[catalog.Grade, *catalog.Grade](s.Grades, inv)
	c.Profiles = usecase.NewCatalog[catalog.Profile, *catalog.Profile](s.Profiles, inv)
	c.Technologies = usecase.NewCatalog[catalog.Technology, *catalog.Technology](s.Technologies, inv)
	c.Skills = usecase.NewCatalog[catalog.Skill, *catalog.Skill](s.Skills, inv)
	c.Subskills = usecase.NewSubskillCatalog(s.Subskills, inv)
	c.Users = usecase.NewUserService(s.Users, inv)
	c.TechnologySkills = usecase.NewMappings[mapping.TechnologySkill, *mapping.TechnologySkill](s.TechnologySkills, inv)
	c.TechnologyProfiles = usecase.NewMappings[mapping.TechnologyProfile, *mapping.TechnologyProfile](s.TechnologyProfiles, inv)
	c.ProfileUsers = usecase.NewMappings[mapping.ProfileUser, *mapping.ProfileUser](s.ProfileUsers, inv)
	c.SkillMaps = usecase.NewSkillMapService(s, inv)
	c.Competency = usecase.NewCompetencyService(s, c.SkillMaps)
	c.Auth = usecase.NewAuthUsecase(c.Users, s.Users, c.JWT)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
