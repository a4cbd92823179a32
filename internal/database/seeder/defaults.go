package seeder

import "skill-matrix/internal/config"

func Defaults(cfg config.SeedConfig) []Seeder {
	return []Seeder{
		GradesSeeder{},
		AdminSeeder{FullName: cfg.AdminName, Email: cfg.AdminEmail, Password: cfg.AdminPassword},
	}
}
