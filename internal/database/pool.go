package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabasePool struct {
	*gorm.DB
	config *PoolConfig
}

type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        logger.Warn,
	}
}

// PoolConfigFromDatabase maps the loaded environment settings onto a pool config.
func PoolConfigFromDatabase(dc config.DatabaseConfig, production bool) *PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.DSN = dc.GetDSN()
	if dc.MaxOpenConns > 0 {
		cfg.MaxOpenConns = dc.MaxOpenConns
	}
	if dc.MaxIdleConns > 0 {
		cfg.MaxIdleConns = dc.MaxIdleConns
	}
	if dc.ConnMaxLifetime > 0 {
		cfg.ConnMaxLifetime = dc.ConnMaxLifetime
	}
	if dc.ConnMaxIdleTime > 0 {
		cfg.ConnMaxIdleTime = dc.ConnMaxIdleTime
	}
	if production {
		cfg.LogLevel = logger.Error
	}
	return cfg
}

func NewDatabasePool(cfg *PoolConfig) (*DatabasePool, error) {
	if cfg == nil {
		cfg = DefaultPoolConfig()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:                 logger.Default.LogMode(cfg.LogLevel),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database pool initialized with %d max connections", cfg.MaxOpenConns)

	return &DatabasePool{DB: db, config: cfg}, nil
}

func (p *DatabasePool) Health() error {
	if p.DB == nil {
		return errors.New("database connection is nil")
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func (p *DatabasePool) Stats() map[string]interface{} {
	if p.DB == nil {
		return map[string]interface{}{"error": "database connection is nil"}
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	stats := sqlDB.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

func (p *DatabasePool) Close() error {
	if p.DB == nil {
		return nil
	}

	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
