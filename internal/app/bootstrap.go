package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"skill-matrix/internal/config"
	"skill-matrix/internal/delivery/http/handler"
	"skill-matrix/internal/delivery/http/middleware"
	"skill-matrix/internal/delivery/http/routes"
	v1 "skill-matrix/internal/delivery/http/routes/v1"
	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/domain/mapping"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	newRegistry(c).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func newRegistry(c *Container) *routes.Registry {
	checks := map[string]handler.HealthCheck{}
	if c.DB != nil {
		checks["postgres"] = c.DB.Ping
	}
	if c.Cache != nil {
		checks["redis"] = c.Cache.Ping
	}
	checks["store"] = func(ctx context.Context) error {
		_, err := c.Stores.Grades.List(ctx)
		return err
	}

	h := v1.Handlers{
		Auth:       handler.NewAuthHandler(c.Auth),
		Me:         handler.NewMeHandler(c.Auth, c.Competency),
		Competency: handler.NewCompetencyHandler(c.Competency),
		Analytics:  handler.NewAnalyticsHandler(c.Analytics),
		Resources: []v1.Resource{
			{Path: "grades", Handler: handler.NewResourceHandler[catalog.Grade](c.Grades, func() catalog.Grade { return catalog.Grade{Active: true} })},
			{Path: "profiles", Handler: handler.NewResourceHandler[catalog.Profile](c.Profiles, func() catalog.Profile { return catalog.Profile{Active: true} })},
			{Path: "technologies", Handler: handler.NewResourceHandler[catalog.Technology](c.Technologies, func() catalog.Technology { return catalog.Technology{Active: true} })},
			{Path: "skills", Handler: handler.NewResourceHandler[catalog.Skill](c.Skills, func() catalog.Skill { return catalog.Skill{Active: true} })},
			{Path: "subskills", Handler: handler.NewResourceHandler[catalog.Subskill](c.Subskills, func() catalog.Subskill { return catalog.Subskill{Active: true} },
				handler.ListFilter[catalog.Subskill]{Param: "skillId", List: c.Subskills.ListBySkill})},
			{Path: "users", Handler: handler.NewResourceHandler[catalog.User](c.Users, func() catalog.User { return catalog.User{Active: true} }).
				OwnedBy(func(u catalog.User) int64 { return u.ID })},
			{Path: "skill-maps", Handler: handler.NewSkillMapHandler(c.SkillMaps)},
			{Path: "technology-skills", Handler: handler.NewResourceHandler[mapping.TechnologySkill](c.TechnologySkills, func() mapping.TechnologySkill { return mapping.TechnologySkill{Active: true} })},
			{Path: "technology-profiles", Handler: handler.NewResourceHandler[mapping.TechnologyProfile](c.TechnologyProfiles, func() mapping.TechnologyProfile { return mapping.TechnologyProfile{Active: true} })},
			{Path: "profile-users", Handler: handler.NewResourceHandler[mapping.ProfileUser](c.ProfileUsers, func() mapping.ProfileUser { return mapping.ProfileUser{Active: true} }).
				OwnedBy(func(pu mapping.ProfileUser) int64 { return pu.UserID })},
		},
	}

	return routes.NewRegistry(handler.NewHealthHandler(checks), h, middleware.NewAuthMiddleware(c.JWT))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
