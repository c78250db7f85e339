package config

import (
	"fmt"
	"time"

	"github.com/KmNeetuSingh/BlueSpace/internal/utils"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	AI        AIConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RateLimitConfig struct {
	RequestsPerMin int
	BurstSize      int
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AIConfig configures the outbound chat-completions client.
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// LoadConfig reads configuration from the environment, loading .env first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // ok if missing in prod

	cfg := &Config{
		Server: ServerConfig{
			Host:         utils.GetEnv("SERVER_HOST", "0.0.0.0"),
			Port:         utils.GetEnvAsInt("PORT", 3000),
			Environment:  utils.GetEnv("ENVIRONMENT", "development"),
			ReadTimeout:  utils.GetEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: utils.GetEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  utils.GetEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigins:  []string{utils.GetEnv("CORS_ORIGIN", "http://localhost:5173")},
		},
		Database: DatabaseConfig{
			Host:            utils.GetEnv("DB_HOST", "localhost"),
			Port:            utils.GetEnvAsInt("DB_PORT", 5432),
			User:            utils.GetEnv("DB_USER", "postgres"),
			Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
			Name:            utils.GetEnv("DB_NAME", "bluespace"),
			SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.GetEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: utils.GetEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: utils.GetEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:         utils.GetEnv("REDIS_HOST", "localhost"),
			Port:         utils.GetEnvAsInt("REDIS_PORT", 6379),
			Password:     utils.GetEnv("REDIS_PASSWORD", ""),
			DB:           utils.GetEnvAsInt("REDIS_DB", 0),
			PoolSize:     utils.GetEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: utils.GetEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxRetries:   utils.GetEnvAsInt("REDIS_MAX_RETRIES", 3),
			DialTimeout:  utils.GetEnvAsDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  utils.GetEnvAsDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: utils.GetEnvAsDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMin: utils.GetEnvAsInt("RATE_LIMIT_PER_MIN", 120),
			BurstSize:      utils.GetEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		JWT: JWTConfig{
			Secret:     utils.GetEnv("JWT_SECRET", "default_secret_change_in_production"),
			AccessTTL:  utils.GetEnvAsDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTTL: utils.GetEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		AI: AIConfig{
			BaseURL:     utils.GetEnv("AI_BASE_URL", "https://api.groq.com/openai"),
			APIKey:      utils.GetEnv("GROQ_API_KEY", ""),
			Model:       utils.GetEnv("AI_MODEL", "llama-3.1-8b-instant"),
			MaxTokens:   utils.GetEnvAsInt("AI_MAX_TOKENS", 512),
			Temperature: 0.7,
			Timeout:     utils.GetEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		},
	}

	if cfg.IsProduction() && cfg.JWT.Secret == "default_secret_change_in_production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GetDSN builds the postgres connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
