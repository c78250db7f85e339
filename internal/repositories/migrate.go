package repositories

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

type MigrationConfig struct {
	MigrationsPath string
	DBName         string
	MaxRetries     int
	RetryDelay     time.Duration
}

func DefaultMigrationConfig() *MigrationConfig {
	return &MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         "bluespace",
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
}

func newMigrator(db *gorm.DB, config *MigrationConfig) (*migrate.Migrate, *sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		DatabaseName:          config.DBName,
		MigrationsTable:       "schema_migrations",
		MultiStatementEnabled: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(config.MigrationsPath, config.DBName, driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, sqlDB, nil
}

func RunMigrations(db *gorm.DB, config *MigrationConfig) error {
	if config == nil {
		config = DefaultMigrationConfig()
	}

	log.Printf("🔄 Running database migrations from: %s", config.MigrationsPath)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := waitForDatabase(sqlDB, config.MaxRetries, config.RetryDelay); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	m, _, err := newMigrator(db, config)
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case err == migrate.ErrNilVersion:
		log.Println("📋 No migrations applied yet")
	case err != nil:
		log.Printf("⚠️  Could not read migration version: %v", err)
	default:
		log.Printf("📋 Current migration version: %d (dirty: %v)", version, dirty)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("✅ Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if version, dirty, err = m.Version(); err == nil {
		log.Printf("✅ Migrations completed, now at version %d (dirty: %v)", version, dirty)
	}
	return nil
}

func RollbackMigration(db *gorm.DB, config *MigrationConfig) error {
	if config == nil {
		config = DefaultMigrationConfig()
	}

	log.Println("⬇️  Rolling back last migration...")

	m, _, err := newMigrator(db, config)
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	log.Println("✅ Migration rolled back successfully")
	return nil
}

func GetMigrationVersion(db *gorm.DB, config *MigrationConfig) (uint, bool, error) {
	if config == nil {
		config = DefaultMigrationConfig()
	}

	m, _, err := newMigrator(db, config)
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

func waitForDatabase(db *sql.DB, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := db.Ping(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Printf("⏳ Database not ready, retrying in %v... (attempt %d/%d)", retryDelay, i+1, maxRetries)
			time.Sleep(retryDelay)
		}
	}
	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}
