// Runs the schema migrations for the coordination service. Reads the Postgres
// credentials from the same CONFIG_PATH file the service uses, so the two
// binaries cannot drift apart on connection settings.
//
// Usage: migrator [up|down] (defaults to up).
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/foodrescue/coordination-service/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ilyakaznacheev/cleanenv"
)

type migratorConfig struct {
	ConnStr         string
	MigrationsPath  string
	MigrationsTable string
}

func main() {
	cfg, err := loadMigratorConfig()
	if err != nil {
		log.Fatalf("migrator: %v", err)
	}

	m, err := migrate.New(
		"file://"+cfg.MigrationsPath,
		fmt.Sprintf("%s?sslmode=disable&x-migrations-table=%s", cfg.ConnStr, cfg.MigrationsTable),
	)
	if err != nil {
		log.Fatalf("migrator: failed to initialize: %v", err)
	}

	var cmd string
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "down":
		if err := down(m); err != nil {
			log.Fatalf("migrator: %v", err)
		}

		fmt.Println("schema rolled back")
	case "up":
		fallthrough
	default:
		if err := up(m); err != nil {
			log.Fatalf("migrator: %v", err)
		}

		fmt.Println("schema is up to date")
	}
}

func loadMigratorConfig() (*migratorConfig, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		return nil, fmt.Errorf("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file '%s' doesn't exist: %v", configPath, err)
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		return nil, fmt.Errorf("MIGRATIONS_PATH is not set")
	}

	migrationsTable := os.Getenv("MIGRATIONS_TABLE")
	if migrationsTable == "" {
		return nil, fmt.Errorf("MIGRATIONS_TABLE is not set")
	}

	var cfg config.Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can't read config: %v", err)
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		cfg.Postgres.Username,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Database,
	)

	return &migratorConfig{
		ConnStr:         connStr,
		MigrationsPath:  migrationsPath,
		MigrationsTable: migrationsTable,
	}, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no new migrations to apply")
			return nil
		}

		return fmt.Errorf("failed to apply migrations: %v", err)
	}

	return nil
}

func down(m *migrate.Migrate) error {
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}

		return fmt.Errorf("failed to roll back migrations: %v", err)
	}

	return nil
}
