package main

import (
	"fmt"

	"booklibrary/internal/config"
)

type settings struct {
	dsn           string
	migrationsDir string
	logLevel      string
	logFormat     string
}

// loadSettings reads .env files, config.yaml and the environment. Only the
// postgres driver has migrations; the sqlite store applies its schema on open.
func loadSettings() (settings, error) {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		return settings{}, err
	}
	if cfg.DBDriver != config.DriverPostgres {
		return settings{}, fmt.Errorf("DB_DRIVER %q has no migrations; use %s", cfg.DBDriver, config.DriverPostgres)
	}
	return settings{
		dsn:           cfg.DBDSN,
		migrationsDir: cfg.MigrationsDir,
		logLevel:      cfg.LogLevel,
		logFormat:     cfg.LogFormat,
	}, nil
}
